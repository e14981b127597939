// Package storetest проверяет, что реализация repository.Store ведёт себя
// одинаково: порядок выдачи, ошибки NotFound, откат транзакций.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// Factory возвращает пустое хранилище для одного подтеста.
type Factory func(t *testing.T) repository.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Profiles", func(t *testing.T) { testProfiles(t, newStore(t)) })
	t.Run("Projects", func(t *testing.T) { testProjects(t, newStore(t)) })
	t.Run("Proposals", func(t *testing.T) { testProposals(t, newStore(t)) })
	t.Run("Escrows", func(t *testing.T) { testEscrows(t, newStore(t)) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, newStore(t)) })
	t.Run("TxRollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("TxPanic", func(t *testing.T) { testPanic(t, newStore(t)) })
}

func mustUser(t *testing.T, store repository.Store, email string, role valueobject.Role) *entity.User {
	t.Helper()
	user, err := entity.NewUser("User "+email, email, "hash", role)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func mustProject(t *testing.T, store repository.Store, clientID uuid.UUID, skills ...uuid.UUID) *entity.Project {
	t.Helper()
	budget, err := valueobject.NewBudget(100, 500, "USD")
	require.NoError(t, err)
	project, err := entity.NewProject(clientID, "Лендинг", "Сверстать лендинг", nil, skills, budget, nil,
		entity.FairnessSettings{NewcomerBoost: true})
	require.NoError(t, err)
	require.NoError(t, store.Projects().Create(context.Background(), project))
	return project
}

func testUsers(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := mustUser(t, store, "Anna@Example.com", valueobject.RoleClient)

	found, err := store.Users().FindByEmail(ctx, " anna@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, valueobject.RoleClient, found.Role)

	dup, err := entity.NewUser("Other", "anna@example.com", "hash", valueobject.RoleFreelancer)
	require.NoError(t, err)
	assert.True(t, apperror.IsConflict(store.Users().Create(ctx, dup)))

	_, err = store.Users().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = store.Users().FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func testProfiles(t *testing.T, store repository.Store) {
	ctx := context.Background()
	first := mustUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	client := mustUser(t, store, "c@example.com", valueobject.RoleClient)
	second := mustUser(t, store, "f2@example.com", valueobject.RoleFreelancer)

	for _, u := range []*entity.User{second, client, first} {
		require.NoError(t, store.Profiles().Upsert(ctx, entity.NewProfile(u.ID)))
	}

	skill := uuid.New()
	rate := 45.5
	profile, err := store.Profiles().FindByUserID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsNewcomer)
	assert.Empty(t, profile.Skills)

	profile.Skills = []uuid.UUID{skill}
	profile.HourlyRate = &rate
	profile.ExperienceLevel = valueobject.ExperienceExpert
	profile.Languages = []string{"ru", "en"}
	require.NoError(t, store.Profiles().Upsert(ctx, profile))

	profile, err = store.Profiles().FindByUserID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{skill}, profile.Skills)
	require.NotNil(t, profile.HourlyRate)
	assert.Equal(t, 45.5, *profile.HourlyRate)
	assert.Equal(t, valueobject.ExperienceExpert, profile.ExperienceLevel)
	assert.Equal(t, []string{"ru", "en"}, profile.Languages)
	assert.Nil(t, profile.Location)

	freelancers, err := store.Profiles().ListFreelancers(ctx)
	require.NoError(t, err)
	require.Len(t, freelancers, 2)
	assert.Equal(t, first.ID, freelancers[0].User.ID, "порядок регистрации")
	assert.Equal(t, second.ID, freelancers[1].User.ID)
	assert.Equal(t, []uuid.UUID{skill}, freelancers[0].Profile.Skills)

	_, err = store.Profiles().FindByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)
}

func testProjects(t *testing.T, store repository.Store) {
	ctx := context.Background()
	client := mustUser(t, store, "client@example.com", valueobject.RoleClient)
	other := mustUser(t, store, "other@example.com", valueobject.RoleClient)

	goSkill, sqlSkill := uuid.New(), uuid.New()
	first := mustProject(t, store, client.ID, goSkill, sqlSkill)
	second := mustProject(t, store, other.ID, sqlSkill)
	third := mustProject(t, store, client.ID)

	found, err := store.Projects().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{goSkill, sqlSkill}, found.RequiredSkills)
	assert.Equal(t, int64(10000), found.Budget.Min.Minor)
	assert.Equal(t, "USD", found.Budget.Currency())
	assert.True(t, found.Fairness.NewcomerBoost)
	assert.Empty(t, found.Attachments)

	escrowID := uuid.New()
	require.NoError(t, found.LinkEscrow(escrowID))
	require.NoError(t, found.StartWork())
	found.AddAttachment("p/1_brief.pdf")
	require.NoError(t, store.Projects().Update(ctx, found))

	found, err = store.Projects().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProjectStatusInProgress, found.Status)
	require.NotNil(t, found.EscrowTransactionID)
	assert.Equal(t, escrowID, *found.EscrowTransactionID)
	assert.Equal(t, []string{"p/1_brief.pdf"}, found.Attachments)

	mine, err := store.Projects().FindByClientID(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)

	open := valueobject.ProjectStatusOpen
	list, total, err := store.Projects().List(ctx, repository.ProjectFilter{Status: &open, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	list, total, err = store.Projects().List(ctx, repository.ProjectFilter{SkillID: &sqlSkill})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	list, _, err = store.Projects().List(ctx, repository.ProjectFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, list)

	missing := *third
	missing.ID = uuid.New()
	assert.ErrorIs(t, store.Projects().Update(ctx, &missing), apperror.ErrProjectNotFound)
	_, err = store.Projects().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
}

func testProposals(t *testing.T, store repository.Store) {
	ctx := context.Background()
	client := mustUser(t, store, "client@example.com", valueobject.RoleClient)
	f1 := mustUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	f2 := mustUser(t, store, "f2@example.com", valueobject.RoleFreelancer)
	project := mustProject(t, store, client.ID)

	budget, err := valueobject.NewMoney(25000, "USD")
	require.NoError(t, err)
	tf, err := valueobject.NewTimeframe(2, "weeks")
	require.NoError(t, err)

	p1, err := entity.NewProposal(project.ID, f1.ID, "Сделаю быстро", budget, tf,
		[]entity.Milestone{{Title: "Макет", Amount: 10000}})
	require.NoError(t, err)
	require.NoError(t, store.Proposals().Create(ctx, p1))
	p2, err := entity.NewProposal(project.ID, f2.ID, "Сделаю качественно", budget, tf, nil)
	require.NoError(t, err)
	require.NoError(t, store.Proposals().Create(ctx, p2))

	dup, err := entity.NewProposal(project.ID, f1.ID, "Ещё раз", budget, tf, nil)
	require.NoError(t, err)
	assert.True(t, apperror.IsValidation(store.Proposals().Create(ctx, dup)))

	byProject, err := store.Proposals().FindByProjectID(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, p1.ID, byProject[0].ID)
	assert.Equal(t, []entity.Milestone{{Title: "Макет", Amount: 10000}}, byProject[0].Milestones)
	assert.Equal(t, tf, byProject[0].Timeframe)
	assert.Empty(t, byProject[1].Milestones)

	found, err := store.Proposals().FindByProjectAndFreelancer(ctx, project.ID, f2.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p2.ID, found.ID)

	none, err := store.Proposals().FindByProjectAndFreelancer(ctx, project.ID, client.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, found.Accept())
	require.NoError(t, store.Proposals().Update(ctx, found))
	mine, err := store.Proposals().FindByFreelancerID(ctx, f2.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, valueobject.ProposalStatusAccepted, mine[0].Status)

	_, err = store.Proposals().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func testEscrows(t *testing.T, store repository.Store) {
	ctx := context.Background()
	client := mustUser(t, store, "client@example.com", valueobject.RoleClient)
	freelancer := mustUser(t, store, "f@example.com", valueobject.RoleFreelancer)
	project := mustProject(t, store, client.ID)
	other := mustProject(t, store, client.ID)

	amount, err := valueobject.NewMoney(150000, "USD")
	require.NoError(t, err)
	first, err := entity.NewEscrowTransaction(project.ID, client.ID, nil, amount, "аванс")
	require.NoError(t, err)
	require.NoError(t, store.Escrows().Create(ctx, first))
	second, err := entity.NewEscrowTransaction(other.ID, client.ID, &freelancer.ID, amount, "")
	require.NoError(t, err)
	require.NoError(t, store.Escrows().Create(ctx, second))

	found, err := store.Escrows().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, found.FreelancerID)
	assert.Equal(t, amount, found.Amount)
	assert.Equal(t, entity.PlatformFeeRate, found.PlatformFeeRate)

	require.NoError(t, found.AssignFreelancer(freelancer.ID))
	_, err = found.Fund(client.ID)
	require.NoError(t, err)
	_, err = found.Dispute(client.ID, "сроки сорваны")
	require.NoError(t, err)
	require.NoError(t, store.Escrows().Update(ctx, found))

	found, err = store.Escrows().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscrowStatusDisputed, found.Status)
	require.NotNil(t, found.DisputeReason)
	assert.Equal(t, "сроки сорваны", *found.DisputeReason)
	assert.Nil(t, found.ReleasedAt)

	byClient, err := store.Escrows().FindByClientID(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, byClient, 2)
	assert.Equal(t, first.ID, byClient[0].ID)

	byFreelancer, err := store.Escrows().FindByFreelancerID(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.Len(t, byFreelancer, 2)

	_, err = store.Escrows().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func testNotifications(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := mustUser(t, store, "u@example.com", valueobject.RoleFreelancer)
	other := mustUser(t, store, "o@example.com", valueobject.RoleClient)

	related := uuid.New()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n := &entity.Notification{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      valueobject.NotificationPaymentReleased,
			Title:     "Платёж",
			Message:   "Выпущен",
			RelatedID: &related,
		}
		require.NoError(t, store.Notifications().Create(ctx, n))
		ids = append(ids, n.ID)
	}
	require.NoError(t, store.Notifications().Create(ctx, &entity.Notification{
		ID: uuid.New(), UserID: other.ID, Type: valueobject.NotificationNewProposal, Title: "t", Message: "m",
	}))

	list, err := store.Notifications().List(ctx, user.ID, 2, 0, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID, "новые первыми")
	assert.Equal(t, ids[1], list[1].ID)
	require.NotNil(t, list[0].RelatedID)
	assert.Equal(t, related, *list[0].RelatedID)

	require.NoError(t, store.Notifications().MarkAsRead(ctx, ids[2]))
	unread, err := store.Notifications().List(ctx, user.ID, 0, 0, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	count, err := store.Notifications().CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Notifications().MarkAllAsRead(ctx, user.ID))
	count, err = store.Notifications().CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = store.Notifications().CountUnread(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Notifications().Delete(ctx, ids[0]))
	assert.ErrorIs(t, store.Notifications().Delete(ctx, ids[0]), apperror.ErrNotificationNotFound)
	assert.ErrorIs(t, store.Notifications().MarkAsRead(ctx, uuid.New()), apperror.ErrNotificationNotFound)
	_, err = store.Notifications().FindByID(ctx, ids[0])
	assert.ErrorIs(t, err, apperror.ErrNotificationNotFound)
}

func testCatalog(t *testing.T, store repository.Store) {
	ctx := context.Background()
	dev, err := entity.NewCategory("Разработка", "", "code", "#000")
	require.NoError(t, err)
	design, err := entity.NewCategory("Дизайн", "", "brush", "#fff")
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateCategory(ctx, dev))
	require.NoError(t, store.Catalog().CreateCategory(ctx, design))

	require.NoError(t, store.Catalog().IncrementProjectCount(ctx, dev.ID))
	found, err := store.Catalog().FindCategoryByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.ProjectCount)
	assert.ErrorIs(t, store.Catalog().IncrementProjectCount(ctx, uuid.New()), apperror.ErrCategoryNotFound)

	categories, err := store.Catalog().ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, dev.ID, categories[0].ID)

	goSkill, err := entity.NewSkill("Go", "backend", "")
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateSkill(ctx, goSkill))

	skill, err := store.Catalog().FindSkillByName(ctx, " go ")
	require.NoError(t, err)
	require.NotNil(t, skill)
	assert.Equal(t, goSkill.ID, skill.ID)

	skill, err = store.Catalog().FindSkillByName(ctx, "rust")
	require.NoError(t, err)
	assert.Nil(t, skill)

	skills, err := store.Catalog().ListSkills(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

func testRollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	client := mustUser(t, store, "client@example.com", valueobject.RoleClient)
	project := mustProject(t, store, client.ID)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx repository.Store) error {
		p, err := tx.Projects().FindByID(ctx, project.ID)
		if err != nil {
			return err
		}
		if err := p.StartWork(); err != nil {
			return err
		}
		if err := tx.Projects().Update(ctx, p); err != nil {
			return err
		}
		mustUser(t, tx, "ghost@example.com", valueobject.RoleFreelancer)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := store.Projects().FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProjectStatusOpen, found.Status)
	_, err = store.Users().FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	require.NoError(t, store.WithinTx(ctx, func(tx repository.Store) error {
		return tx.WithinTx(ctx, func(inner repository.Store) error {
			mustUser(t, inner, "kept@example.com", valueobject.RoleFreelancer)
			return nil
		})
	}))
	_, err = store.Users().FindByEmail(ctx, "kept@example.com")
	assert.NoError(t, err)
}

func testPanic(t *testing.T, store repository.Store) {
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(tx repository.Store) error {
			mustUser(t, tx, "panic@example.com", valueobject.RoleClient)
			panic("boom")
		})
	})

	_, err := store.Users().FindByEmail(ctx, "panic@example.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	// Хранилище остаётся рабочим после паники.
	mustUser(t, store, "after@example.com", valueobject.RoleClient)
}
