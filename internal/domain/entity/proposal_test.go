package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

func TestProposal_ResolveOnlyOnce(t *testing.T) {
	budget, err := valueobject.NewMoney(1000, "USD")
	require.NoError(t, err)
	tf, err := valueobject.NewTimeframe(3, "days")
	require.NoError(t, err)

	p, err := NewProposal(uuid.New(), uuid.New(), "Сделаю", budget, tf, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Milestones)

	require.NoError(t, p.Accept())
	assert.True(t, apperror.IsInvalidState(p.Reject()))
	assert.True(t, apperror.IsInvalidState(p.Withdraw()))
}

func TestNewProposal_Validation(t *testing.T) {
	budget, _ := valueobject.NewMoney(1000, "USD")
	tf, _ := valueobject.NewTimeframe(1, "weeks")

	_, err := NewProposal(uuid.New(), uuid.New(), "  ", budget, tf, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewProposal(uuid.New(), uuid.New(), "ok", valueobject.Money{Currency: "USD"}, tf, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewProposal(uuid.New(), uuid.New(), "ok", budget, tf, []Milestone{{Title: "", Amount: 10}})
	assert.True(t, apperror.IsValidation(err))
}

func TestProject_Lifecycle(t *testing.T) {
	budget, err := valueobject.NewBudget(10, 20, "USD")
	require.NoError(t, err)
	p, err := NewProject(uuid.New(), "Title", "Description", nil, nil, budget, nil, FairnessSettings{})
	require.NoError(t, err)

	assert.True(t, apperror.IsInvalidState(p.Complete()))
	require.NoError(t, p.StartWork())
	assert.True(t, apperror.IsInvalidState(p.StartWork()))
	require.NoError(t, p.Complete())

	id := uuid.New()
	require.NoError(t, p.LinkEscrow(id))
	assert.True(t, apperror.IsInvalidState(p.LinkEscrow(uuid.New())))
}
