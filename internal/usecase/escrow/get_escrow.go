package escrow

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// EscrowView транзакция с названием проекта и именами сторон для ответа клиенту.
type EscrowView struct {
	Transaction    *entity.EscrowTransaction
	ProjectTitle   string
	ClientName     string
	FreelancerName string
}

type GetEscrowUseCase struct {
	store repository.Store
}

func NewGetEscrowUseCase(store repository.Store) *GetEscrowUseCase {
	return &GetEscrowUseCase{store: store}
}

// Execute транзакцию видят её участники и администраторы.
func (uc *GetEscrowUseCase) Execute(ctx context.Context, transactionID, viewerID uuid.UUID) (*EscrowView, error) {
	t, err := uc.store.Escrows().FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !t.IsParticipant(viewerID) {
		viewer, err := uc.store.Users().FindByID(ctx, viewerID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.ErrForbidden
			}
			return nil, err
		}
		if !viewer.HasRole(valueobject.RoleAdmin) {
			return nil, apperror.ErrForbidden
		}
	}

	return enrich(ctx, uc.store, t, true), nil
}

type ListEscrowsUseCase struct {
	store repository.Store
}

func NewListEscrowsUseCase(store repository.Store) *ListEscrowsUseCase {
	return &ListEscrowsUseCase{store: store}
}

// Execute выбирает индекс по роли: клиент видит свои платежи, фрилансер свои выплаты.
// Для остальных ролей возвращается объединение, новые первыми.
func (uc *ListEscrowsUseCase) Execute(ctx context.Context, userID uuid.UUID, role valueobject.Role) ([]*EscrowView, error) {
	var (
		items []*entity.EscrowTransaction
		err   error
	)
	switch role {
	case valueobject.RoleClient:
		items, err = uc.store.Escrows().FindByClientID(ctx, userID)
	case valueobject.RoleFreelancer:
		items, err = uc.store.Escrows().FindByFreelancerID(ctx, userID)
	default:
		items, err = uc.both(ctx, userID)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить транзакции")
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	views := make([]*EscrowView, 0, len(items))
	for _, t := range items {
		views = append(views, enrich(ctx, uc.store, t, false))
	}
	return views, nil
}

func (uc *ListEscrowsUseCase) both(ctx context.Context, userID uuid.UUID) ([]*entity.EscrowTransaction, error) {
	asClient, err := uc.store.Escrows().FindByClientID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asFreelancer, err := uc.store.Escrows().FindByFreelancerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(asClient)+len(asFreelancer))
	result := make([]*entity.EscrowTransaction, 0, len(asClient)+len(asFreelancer))
	for _, t := range append(asClient, asFreelancer...) {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		result = append(result, t)
	}
	return result, nil
}

// enrich подтягивает название проекта и, если нужно, имена сторон.
// Отсутствующие связанные записи не считаются ошибкой.
func enrich(ctx context.Context, store repository.Store, t *entity.EscrowTransaction, withNames bool) *EscrowView {
	view := &EscrowView{Transaction: t}

	if project, err := store.Projects().FindByID(ctx, t.ProjectID); err == nil {
		view.ProjectTitle = project.Title
	}
	if !withNames {
		return view
	}

	if client, err := store.Users().FindByID(ctx, t.ClientID); err == nil {
		view.ClientName = client.Name
	}
	if t.FreelancerID != nil {
		if freelancer, err := store.Users().FindByID(ctx, *t.FreelancerID); err == nil {
			view.FreelancerName = freelancer.Name
		}
	}
	return view
}
