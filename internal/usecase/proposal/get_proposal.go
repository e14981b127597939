package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// ProposalView предложение глазами клиента. При слепом просмотре
// FreelancerID и FreelancerName пустые.
type ProposalView struct {
	Proposal        *entity.Proposal
	FreelancerID    *uuid.UUID
	FreelancerName  string
	ExperienceLevel valueobject.ExperienceLevel
	IsNewcomer      bool
	Blind           bool
}

// viewFor собирает представление для владельца проекта. Уровень и флаг новичка
// видны всегда, личность автора только без слепого просмотра.
func viewFor(ctx context.Context, store repository.Store, project *entity.Project, p *entity.Proposal) *ProposalView {
	blind := project.Fairness.BlindProposalReview
	view := &ProposalView{Proposal: p, Blind: blind}

	if profile, err := store.Profiles().FindByUserID(ctx, p.FreelancerID); err == nil {
		view.ExperienceLevel = profile.ExperienceLevel
		view.IsNewcomer = profile.IsNewcomer
	}
	if !blind {
		id := p.FreelancerID
		view.FreelancerID = &id
		if user, err := store.Users().FindByID(ctx, p.FreelancerID); err == nil {
			view.FreelancerName = user.Name
		}
	}
	return view
}

type GetProposalUseCase struct {
	store repository.Store
}

func NewGetProposalUseCase(store repository.Store) *GetProposalUseCase {
	return &GetProposalUseCase{store: store}
}

// Execute предложение доступно автору и владельцу проекта. Владелец слепого
// проекта получает его без автора, как и в списке.
func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID) (*ProposalView, error) {
	proposal, err := uc.store.Proposals().FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	project, err := uc.store.Projects().FindByID(ctx, proposal.ProjectID)
	if err != nil {
		return nil, err
	}

	if proposal.IsOwnedBy(userID) {
		id := proposal.FreelancerID
		view := &ProposalView{Proposal: proposal, FreelancerID: &id}
		if profile, err := uc.store.Profiles().FindByUserID(ctx, userID); err == nil {
			view.ExperienceLevel = profile.ExperienceLevel
			view.IsNewcomer = profile.IsNewcomer
		}
		if user, err := uc.store.Users().FindByID(ctx, userID); err == nil {
			view.FreelancerName = user.Name
		}
		return view, nil
	}
	if !project.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return viewFor(ctx, uc.store, project, proposal), nil
}

type ListProjectProposalsUseCase struct {
	store repository.Store
}

func NewListProjectProposalsUseCase(store repository.Store) *ListProjectProposalsUseCase {
	return &ListProjectProposalsUseCase{store: store}
}

func (uc *ListProjectProposalsUseCase) Execute(ctx context.Context, projectID, clientID uuid.UUID) ([]*ProposalView, error) {
	project, err := uc.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(clientID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "предложения видит только владелец проекта")
	}

	proposals, err := uc.store.Proposals().FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}

	views := make([]*ProposalView, 0, len(proposals))
	for _, p := range proposals {
		views = append(views, viewFor(ctx, uc.store, project, p))
	}
	return views, nil
}

// MyProposal предложение фрилансера вместе с названием и статусом проекта.
type MyProposal struct {
	Proposal      *entity.Proposal
	ProjectTitle  string
	ProjectStatus valueobject.ProjectStatus
}

type ListMyProposalsUseCase struct {
	store repository.Store
}

func NewListMyProposalsUseCase(store repository.Store) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{store: store}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]*MyProposal, error) {
	proposals, err := uc.store.Proposals().FindByFreelancerID(ctx, freelancerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}

	result := make([]*MyProposal, 0, len(proposals))
	for _, p := range proposals {
		item := &MyProposal{Proposal: p}
		// удалённый проект не прячет само предложение
		if project, err := uc.store.Projects().FindByID(ctx, p.ProjectID); err == nil {
			item.ProjectTitle = project.Title
			item.ProjectStatus = project.Status
		} else if !apperror.IsNotFound(err) {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}
