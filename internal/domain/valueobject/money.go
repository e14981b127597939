package valueobject

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const DefaultCurrency = "USD"

// Money хранит сумму в минимальных единицах валюты (центы, копейки).
type Money struct {
	Minor    int64
	Currency string
}

// ParseCurrency нормализует и проверяет ISO 4217 код.
func ParseCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", apperror.Newf(apperror.ErrCodeValidation, "неизвестная валюта %q", code)
	}
	return unit.String(), nil
}

// CurrencyScale возвращает количество знаков после запятой для валюты.
func CurrencyScale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

func NewMoney(minor int64, code string) (Money, error) {
	cur, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	if minor < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	return Money{Minor: minor, Currency: cur}, nil
}

// MoneyFromDecimal переводит десятичную сумму в минимальные единицы один раз на входе.
func MoneyFromDecimal(amount float64, code string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "некорректная сумма")
	}
	cur, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	minor := math.Round(amount * math.Pow10(CurrencyScale(cur)))
	switch {
	case minor < 0:
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	case minor >= math.MaxInt64: // float64(MaxInt64) округляется до 2^63
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма слишком велика")
	}
	return NewMoney(int64(minor), cur)
}

func (m Money) IsPositive() bool {
	return m.Minor > 0
}

// Decimal возвращает сумму в основных единицах. Только для отображения.
func (m Money) Decimal() float64 {
	return float64(m.Minor) / math.Pow10(CurrencyScale(m.Currency))
}

// MulRate умножает сумму на долю с округлением половины от нуля.
func (m Money) MulRate(rate float64) Money {
	return Money{Minor: int64(math.Round(float64(m.Minor) * rate)), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	return Money{Minor: m.Minor - other.Minor, Currency: m.Currency}
}

func (m Money) String() string {
	scale := CurrencyScale(m.Currency)
	sign := ""
	minor := m.Minor
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	if scale == 0 {
		return fmt.Sprintf("%s%d %s", sign, minor, m.Currency)
	}
	div := int64(math.Pow10(scale))
	return fmt.Sprintf("%s%d.%0*d %s", sign, minor/div, scale, minor%div, m.Currency)
}

type Budget struct {
	Min Money
	Max Money
}

func NewBudget(min, max float64, code string) (Budget, error) {
	if min < 0 || max < 0 {
		return Budget{}, apperror.New(apperror.ErrCodeValidation, "бюджет не может быть отрицательным")
	}
	if min > max {
		return Budget{}, apperror.New(apperror.ErrCodeValidation, "минимальный бюджет не может превышать максимальный")
	}

	minMoney, err := MoneyFromDecimal(min, code)
	if err != nil {
		return Budget{}, err
	}
	maxMoney, err := MoneyFromDecimal(max, code)
	if err != nil {
		return Budget{}, err
	}

	return Budget{Min: minMoney, Max: maxMoney}, nil
}

func (b Budget) Currency() string {
	return b.Min.Currency
}

func (b Budget) String() string {
	return fmt.Sprintf("%s - %s", b.Min, b.Max)
}
