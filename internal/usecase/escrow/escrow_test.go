package escrow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/escrow"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
)

type recordingPublisher struct {
	mu    sync.Mutex
	items []*entity.Notification
}

func (p *recordingPublisher) Publish(n *entity.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, n)
}

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	publisher  *recordingPublisher
	notifier   *notify.Dispatcher
	client     *entity.User
	freelancer *entity.User
	admin      *entity.User
	project    *entity.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: memory.NewStore(), publisher: &recordingPublisher{}}
	f.notifier = notify.NewDispatcher(f.publisher)

	f.client = f.user(t, "Клиент", valueobject.RoleClient)
	f.freelancer = f.user(t, "Фрилансер", valueobject.RoleFreelancer)
	f.admin = f.user(t, "Админ", valueobject.RoleAdmin)

	budget, err := valueobject.NewBudget(1000, 2000, "USD")
	require.NoError(t, err)
	f.project, err = entity.NewProject(f.client.ID, "Лендинг", "Сверстать лендинг для продукта", nil, nil, budget, nil, entity.FairnessSettings{})
	require.NoError(t, err)
	require.NoError(t, f.store.Projects().Create(f.ctx, f.project))
	return f
}

func (f *fixture) user(t *testing.T, name string, role valueobject.Role) *entity.User {
	t.Helper()
	u, err := entity.NewUser(name, uuid.NewString()+"@example.com", "hash", role)
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) create(t *testing.T, freelancerID *uuid.UUID) *entity.EscrowTransaction {
	t.Helper()
	tx, err := escrow.NewCreateEscrowUseCase(f.store).Execute(f.ctx, escrow.CreateEscrowInput{
		ProjectID:    f.project.ID,
		ClientID:     f.client.ID,
		FreelancerID: freelancerID,
		Amount:       1500,
		Currency:     "usd",
		Description:  "Оплата лендинга",
	})
	require.NoError(t, err)
	return tx
}

func (f *fixture) notificationsFor(t *testing.T, userID uuid.UUID) []*entity.Notification {
	t.Helper()
	items, err := f.store.Notifications().List(f.ctx, userID, 100, 0, false)
	require.NoError(t, err)
	return items
}

func TestCreateEscrow_Success(t *testing.T) {
	f := newFixture(t)

	tx := f.create(t, nil)

	assert.Equal(t, valueobject.EscrowStatusPending, tx.Status)
	assert.Equal(t, int64(150000), tx.Amount.Minor)
	assert.Equal(t, "USD", tx.Amount.Currency)
	assert.Equal(t, entity.PlatformFeeRate, tx.PlatformFeeRate)

	project, err := f.store.Projects().FindByID(f.ctx, f.project.ID)
	require.NoError(t, err)
	require.NotNil(t, project.EscrowTransactionID)
	assert.Equal(t, tx.ID, *project.EscrowTransactionID)
}

func TestCreateEscrow_NonClientWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := escrow.NewCreateEscrowUseCase(f.store).Execute(f.ctx, escrow.CreateEscrowInput{
		ProjectID: f.project.ID,
		ClientID:  f.freelancer.ID,
		Amount:    100,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	items, err := f.store.Escrows().FindByClientID(f.ctx, f.freelancer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	project, err := f.store.Projects().FindByID(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Nil(t, project.EscrowTransactionID)
}

func TestCreateEscrow_Validation(t *testing.T) {
	f := newFixture(t)
	uc := escrow.NewCreateEscrowUseCase(f.store)

	cases := []struct {
		name  string
		input escrow.CreateEscrowInput
		check func(error) bool
	}{
		{"unknown client", escrow.CreateEscrowInput{ProjectID: f.project.ID, ClientID: uuid.New(), Amount: 10}, apperror.IsNotFound},
		{"unknown project", escrow.CreateEscrowInput{ProjectID: uuid.New(), ClientID: f.client.ID, Amount: 10}, apperror.IsNotFound},
		{"zero amount", escrow.CreateEscrowInput{ProjectID: f.project.ID, ClientID: f.client.ID, Amount: 0}, apperror.IsValidation},
		{"negative amount", escrow.CreateEscrowInput{ProjectID: f.project.ID, ClientID: f.client.ID, Amount: -5}, apperror.IsValidation},
		{"bad currency", escrow.CreateEscrowInput{ProjectID: f.project.ID, ClientID: f.client.ID, Amount: 10, Currency: "XXY"}, apperror.IsValidation},
		{"freelancer is client", escrow.CreateEscrowInput{ProjectID: f.project.ID, ClientID: f.client.ID, Amount: 10, FreelancerID: &f.client.ID}, apperror.IsValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(f.ctx, tc.input)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %v", err)
		})
	}
}

func TestCreateEscrow_ForeignProject(t *testing.T) {
	f := newFixture(t)
	other := f.user(t, "Другой клиент", valueobject.RoleClient)

	_, err := escrow.NewCreateEscrowUseCase(f.store).Execute(f.ctx, escrow.CreateEscrowInput{
		ProjectID: f.project.ID,
		ClientID:  other.ID,
		Amount:    10,
	})
	assert.True(t, apperror.IsForbidden(err))
}

func TestCreateEscrow_SecondTransactionRejected(t *testing.T) {
	f := newFixture(t)
	f.create(t, nil)

	_, err := escrow.NewCreateEscrowUseCase(f.store).Execute(f.ctx, escrow.CreateEscrowInput{
		ProjectID: f.project.ID,
		ClientID:  f.client.ID,
		Amount:    10,
	})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestEscrow_FundAndRelease(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)

	funded, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusFunded, funded.Status)

	released, err := escrow.NewReleaseEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusReleased, released.Status)
	require.NotNil(t, released.ReleasedAt)

	notes := f.notificationsFor(t, f.freelancer.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, valueobject.NotificationPaymentReleased, notes[0].Type)
	assert.Contains(t, notes[0].Message, "1500.00 USD")

	require.Len(t, f.publisher.items, 1)
	assert.Equal(t, notes[0].ID, f.publisher.items[0].ID)

	fee, payout := released.FeeSplit()
	assert.Equal(t, int64(15000), fee.Minor)
	assert.Equal(t, int64(135000), payout.Minor)
}

func TestEscrow_FundTwice(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, nil)
	fund := escrow.NewFundEscrowUseCase(f.store, f.notifier)

	_, err := fund.Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	_, err = fund.Execute(f.ctx, tx.ID, f.client.ID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestEscrow_ReleaseWithoutFreelancerKeepsFunded(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, nil)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	_, err = escrow.NewReleaseEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	assert.True(t, apperror.IsValidation(err))

	stored, err := f.store.Escrows().FindByID(f.ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusFunded, stored.Status)
	assert.Empty(t, f.publisher.items)
}

func TestEscrow_ReleaseByFreelancerForbidden(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	_, err = escrow.NewReleaseEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.freelancer.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestEscrow_DisputeAndRefund(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	disputed, err := escrow.NewDisputeEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.freelancer.ID, "работа принята, оплаты нет")
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusDisputed, disputed.Status)
	require.NotNil(t, disputed.DisputeReason)

	clientNotes := f.notificationsFor(t, f.client.ID)
	require.Len(t, clientNotes, 1)
	assert.Equal(t, valueobject.NotificationPaymentDisputed, clientNotes[0].Type)

	refund := escrow.NewRefundEscrowUseCase(f.store, f.notifier)
	_, err = refund.Execute(f.ctx, tx.ID, f.client.ID)
	assert.True(t, apperror.IsForbidden(err))

	refunded, err := refund.Execute(f.ctx, tx.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusRefunded, refunded.Status)

	assert.Len(t, f.notificationsFor(t, f.client.ID), 2)
	freelancerNotes := f.notificationsFor(t, f.freelancer.ID)
	require.Len(t, freelancerNotes, 1)
	assert.Equal(t, valueobject.NotificationPaymentRefunded, freelancerNotes[0].Type)
}

func TestEscrow_DisputeWithoutFreelancerNotifiesNobody(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, nil)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	_, err = escrow.NewDisputeEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID, "передумал")
	require.NoError(t, err)
	assert.Empty(t, f.publisher.items)
}

func TestEscrow_DisputeRequiresReason(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID)
	require.NoError(t, err)

	_, err = escrow.NewDisputeEscrowUseCase(f.store, f.notifier).Execute(f.ctx, tx.ID, f.client.ID, "   ")
	assert.True(t, apperror.IsValidation(err))
}

func TestEscrow_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := escrow.NewFundEscrowUseCase(f.store, f.notifier).Execute(f.ctx, uuid.New(), f.client.ID)
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestGetEscrow_Visibility(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)
	uc := escrow.NewGetEscrowUseCase(f.store)

	view, err := uc.Execute(f.ctx, tx.ID, f.freelancer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Лендинг", view.ProjectTitle)
	assert.Equal(t, "Клиент", view.ClientName)
	assert.Equal(t, "Фрилансер", view.FreelancerName)

	_, err = uc.Execute(f.ctx, tx.ID, f.admin.ID)
	assert.NoError(t, err)

	stranger := f.user(t, "Чужой", valueobject.RoleFreelancer)
	_, err = uc.Execute(f.ctx, tx.ID, stranger.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestListEscrows_ByRole(t *testing.T) {
	f := newFixture(t)
	tx := f.create(t, &f.freelancer.ID)
	uc := escrow.NewListEscrowsUseCase(f.store)

	asClient, err := uc.Execute(f.ctx, f.client.ID, valueobject.RoleClient)
	require.NoError(t, err)
	require.Len(t, asClient, 1)
	assert.Equal(t, tx.ID, asClient[0].Transaction.ID)
	assert.Equal(t, "Лендинг", asClient[0].ProjectTitle)

	asFreelancer, err := uc.Execute(f.ctx, f.freelancer.ID, valueobject.RoleFreelancer)
	require.NoError(t, err)
	assert.Len(t, asFreelancer, 1)

	none, err := uc.Execute(f.ctx, f.client.ID, valueobject.RoleFreelancer)
	require.NoError(t, err)
	assert.Empty(t, none)
}
