package proposal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
	"github.com/ignatzorin/fairlance-backend/internal/validation"
)

type MilestoneInput struct {
	Title       string
	Description string
	Amount      float64
	DueDate     *time.Time
}

type SubmitProposalInput struct {
	ProjectID         uuid.UUID
	FreelancerID      uuid.UUID
	CoverLetter       string
	ProposedBudget    float64
	TimeframeDuration int
	TimeframeUnit     string
	Milestones        []MilestoneInput
}

type SubmitProposalUseCase struct {
	store    repository.Store
	notifier *notify.Dispatcher
}

func NewSubmitProposalUseCase(store repository.Store, notifier *notify.Dispatcher) *SubmitProposalUseCase {
	return &SubmitProposalUseCase{store: store, notifier: notifier}
}

func (uc *SubmitProposalUseCase) Execute(ctx context.Context, input SubmitProposalInput) (*entity.Proposal, error) {
	if err := validation.ValidateCoverLetter(input.CoverLetter); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	var (
		proposal *entity.Proposal
		created  []*entity.Notification
	)

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		freelancer, err := tx.Users().FindByID(ctx, input.FreelancerID)
		if err != nil {
			return err
		}
		if !freelancer.HasRole(valueobject.RoleFreelancer) {
			return apperror.New(apperror.ErrCodeForbidden, "откликаться на проекты могут только фрилансеры")
		}

		project, err := tx.Projects().FindByID(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if !project.IsOpen() {
			return apperror.New(apperror.ErrCodeInvalidState, "проект не принимает предложения")
		}

		existing, err := tx.Proposals().FindByProjectAndFreelancer(ctx, project.ID, freelancer.ID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить предложения")
		}
		if existing != nil {
			return apperror.New(apperror.ErrCodeValidation, "вы уже откликнулись на этот проект")
		}

		currency := project.Budget.Currency()
		budget, err := valueobject.MoneyFromDecimal(input.ProposedBudget, currency)
		if err != nil {
			return err
		}
		timeframe, err := valueobject.NewTimeframe(input.TimeframeDuration, input.TimeframeUnit)
		if err != nil {
			return err
		}
		milestones, err := toMilestones(input.Milestones, currency)
		if err != nil {
			return err
		}

		proposal, err = entity.NewProposal(project.ID, freelancer.ID, input.CoverLetter, budget, timeframe, milestones)
		if err != nil {
			return err
		}
		if err := tx.Proposals().Create(ctx, proposal); err != nil {
			return err
		}

		created, err = uc.notifier.Record(ctx, tx.Notifications(), []effect.Notify{
			effect.NotifyAbout(project.ClientID, valueobject.NotificationNewProposal,
				"Новое предложение",
				fmt.Sprintf("На проект «%s» пришло новое предложение.", project.Title),
				project.ID),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id":   proposal.ID,
		"project_id":    proposal.ProjectID,
		"freelancer_id": proposal.FreelancerID,
	}).Info("proposal: предложение отправлено")

	uc.notifier.Publish(created)
	return proposal, nil
}

func toMilestones(items []MilestoneInput, currency string) ([]entity.Milestone, error) {
	result := make([]entity.Milestone, 0, len(items))
	for _, item := range items {
		amount, err := valueobject.MoneyFromDecimal(item.Amount, currency)
		if err != nil {
			return nil, err
		}
		result = append(result, entity.Milestone{
			Title:       item.Title,
			Description: item.Description,
			Amount:      amount.Minor,
			DueDate:     item.DueDate,
		})
	}
	return result, nil
}
