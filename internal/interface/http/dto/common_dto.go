package dto

import (
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

// MoneyResponse сумма для клиента: десятичное значение для отображения и точное в минимальных единицах.
type MoneyResponse struct {
	Amount    float64 `json:"amount"`
	Minor     int64   `json:"amount_minor"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

func ToMoneyResponse(m valueobject.Money) MoneyResponse {
	return MoneyResponse{
		Amount:    m.Decimal(),
		Minor:     m.Minor,
		Currency:  m.Currency,
		Formatted: m.String(),
	}
}
