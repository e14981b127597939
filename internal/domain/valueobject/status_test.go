package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allEscrowStatuses = []EscrowStatus{
	EscrowStatusPending, EscrowStatusFunded, EscrowStatusReleased, EscrowStatusDisputed, EscrowStatusRefunded,
}

func TestEscrowStatus_TransitionGraph(t *testing.T) {
	allowed := map[EscrowStatus][]EscrowStatus{
		EscrowStatusPending:  {EscrowStatusFunded},
		EscrowStatusFunded:   {EscrowStatusReleased, EscrowStatusDisputed},
		EscrowStatusDisputed: {EscrowStatusRefunded},
	}

	for _, from := range allEscrowStatuses {
		for _, to := range allEscrowStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestEscrowStatus_Terminal(t *testing.T) {
	assert.True(t, EscrowStatusReleased.IsTerminal())
	assert.True(t, EscrowStatusRefunded.IsTerminal())
	assert.False(t, EscrowStatusDisputed.IsTerminal())

	_, err := NewEscrowStatus("cancelled")
	assert.Error(t, err)
}

func TestProjectStatus_Transitions(t *testing.T) {
	assert.True(t, ProjectStatusOpen.CanTransitionTo(ProjectStatusInProgress))
	assert.True(t, ProjectStatusInProgress.CanTransitionTo(ProjectStatusCompleted))
	assert.False(t, ProjectStatusOpen.CanTransitionTo(ProjectStatusCompleted))
	assert.False(t, ProjectStatusCompleted.CanTransitionTo(ProjectStatusOpen))
}

func TestExperienceLevel_Rank(t *testing.T) {
	assert.Equal(t, 0, ExperienceUnset.Rank())
	assert.Equal(t, 1, ExperienceBeginner.Rank())
	assert.Equal(t, 3, ExperienceExpert.Rank())

	_, err := NewExperienceLevel("senior")
	assert.Error(t, err)
}
