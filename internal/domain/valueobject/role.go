package valueobject

import "github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleFreelancer, RoleAdmin:
		return true
	}
	return false
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная роль")
	}
	return r, nil
}

type ExperienceLevel string

const (
	ExperienceUnset        ExperienceLevel = ""
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExpert       ExperienceLevel = "expert"
)

func (l ExperienceLevel) IsValid() bool {
	switch l {
	case ExperienceUnset, ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

// Rank порядковый номер уровня: 1..3, 0 для незаданного.
func (l ExperienceLevel) Rank() int {
	switch l {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceExpert:
		return 3
	}
	return 0
}

func NewExperienceLevel(level string) (ExperienceLevel, error) {
	l := ExperienceLevel(level)
	if !l.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный уровень опыта")
	}
	return l, nil
}

type TimeUnit string

const (
	TimeUnitDays   TimeUnit = "days"
	TimeUnitWeeks  TimeUnit = "weeks"
	TimeUnitMonths TimeUnit = "months"
)

// Timeframe оценка сроков в предложении.
type Timeframe struct {
	Duration int
	Unit     TimeUnit
}

func NewTimeframe(duration int, unit string) (Timeframe, error) {
	if duration <= 0 {
		return Timeframe{}, apperror.New(apperror.ErrCodeValidation, "срок должен быть положительным")
	}
	switch TimeUnit(unit) {
	case TimeUnitDays, TimeUnitWeeks, TimeUnitMonths:
	default:
		return Timeframe{}, apperror.New(apperror.ErrCodeValidation, "единица срока должна быть days, weeks или months")
	}
	return Timeframe{Duration: duration, Unit: TimeUnit(unit)}, nil
}

type NotificationType string

const (
	NotificationPaymentReleased  NotificationType = "payment_released"
	NotificationPaymentDisputed  NotificationType = "payment_disputed"
	NotificationPaymentRefunded  NotificationType = "payment_refunded"
	NotificationNewProposal      NotificationType = "new_proposal"
	NotificationProposalAccepted NotificationType = "proposal_accepted"
	NotificationProposalRejected NotificationType = "proposal_rejected"
	NotificationProjectCompleted NotificationType = "project_completed"
)
