package project

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/storage"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
)

type CompleteProjectUseCase struct {
	store    repository.Store
	notifier *notify.Dispatcher
}

func NewCompleteProjectUseCase(store repository.Store, notifier *notify.Dispatcher) *CompleteProjectUseCase {
	return &CompleteProjectUseCase{store: store, notifier: notifier}
}

// Execute фрилансер с принятым предложением сдаёт работу. Клиент получает уведомление.
func (uc *CompleteProjectUseCase) Execute(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Project, error) {
	var (
		completed *entity.Project
		created   []*entity.Notification
	)

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		project, err := tx.Projects().FindByID(ctx, projectID)
		if err != nil {
			return err
		}

		proposals, err := tx.Proposals().FindByProjectID(ctx, project.ID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
		}
		var accepted *entity.Proposal
		for _, p := range proposals {
			if p.IsAccepted() {
				accepted = p
				break
			}
		}
		if accepted == nil {
			return apperror.New(apperror.ErrCodeInvalidState, "у проекта нет принятого предложения")
		}
		if !accepted.IsOwnedBy(freelancerID) {
			return apperror.New(apperror.ErrCodeForbidden, "завершить проект может только выбранный исполнитель")
		}

		if err := project.Complete(); err != nil {
			return err
		}
		if err := tx.Projects().Update(ctx, project); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить проект")
		}

		created, err = uc.notifier.Record(ctx, tx.Notifications(), []effect.Notify{
			effect.NotifyAbout(project.ClientID, valueobject.NotificationProjectCompleted,
				"Проект завершён",
				fmt.Sprintf("Исполнитель отметил проект «%s» выполненным.", project.Title),
				project.ID),
		})
		if err != nil {
			return err
		}

		completed = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"project_id": completed.ID,
		"actor_id":   freelancerID,
		"to":         completed.Status,
	}).Info("project: проект завершён")

	uc.notifier.Publish(created)
	return completed, nil
}

// AttachmentSaver файловое хранилище вложений.
type AttachmentSaver interface {
	Save(ctx context.Context, projectID uuid.UUID, originalName string, r io.Reader) (*storage.Stored, error)
	Delete(ctx context.Context, relativePath string) error
}

type AddAttachmentUseCase struct {
	store repository.Store
	files AttachmentSaver
}

func NewAddAttachmentUseCase(store repository.Store, files AttachmentSaver) *AddAttachmentUseCase {
	return &AddAttachmentUseCase{store: store, files: files}
}

func (uc *AddAttachmentUseCase) Execute(ctx context.Context, projectID, clientID uuid.UUID, fileName string, r io.Reader) (*storage.Stored, error) {
	project, err := uc.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(clientID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "добавлять вложения может только владелец проекта")
	}

	stored, err := uc.files.Save(ctx, project.ID, fileName, r)
	if err != nil {
		return nil, err
	}

	err = uc.store.WithinTx(ctx, func(tx repository.Store) error {
		fresh, err := tx.Projects().FindByID(ctx, project.ID)
		if err != nil {
			return err
		}
		fresh.AddAttachment(stored.Path)
		return tx.Projects().Update(ctx, fresh)
	})
	if err != nil {
		if delErr := uc.files.Delete(ctx, stored.Path); delErr != nil {
			logger.Log.WithError(delErr).Warn("project: не удалось удалить файл после ошибки")
		}
		return nil, err
	}

	return stored, nil
}
