package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/validation"
)

type CreateProjectInput struct {
	ClientID       uuid.UUID
	Title          string
	Description    string
	CategoryID     *uuid.UUID
	RequiredSkills []uuid.UUID
	BudgetMin      float64
	BudgetMax      float64
	Currency       string
	Deadline       *time.Time
	Fairness       entity.FairnessSettings
}

type CreateProjectUseCase struct {
	store repository.Store
}

func NewCreateProjectUseCase(store repository.Store) *CreateProjectUseCase {
	return &CreateProjectUseCase{store: store}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*entity.Project, error) {
	if err := validation.ValidateProjectTitle(input.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateProjectDescription(input.Description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	var created *entity.Project

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		client, err := tx.Users().FindByID(ctx, input.ClientID)
		if err != nil {
			return err
		}
		if !client.HasRole(valueobject.RoleClient) {
			return apperror.New(apperror.ErrCodeForbidden, "создавать проекты могут только клиенты")
		}

		budget, err := valueobject.NewBudget(input.BudgetMin, input.BudgetMax, input.Currency)
		if err != nil {
			return err
		}

		if input.CategoryID != nil {
			if _, err := tx.Catalog().FindCategoryByID(ctx, *input.CategoryID); err != nil {
				if apperror.IsNotFound(err) {
					return apperror.New(apperror.ErrCodeValidation, "категория не существует")
				}
				return err
			}
		}

		project, err := entity.NewProject(client.ID, input.Title, input.Description, input.CategoryID,
			input.RequiredSkills, budget, input.Deadline, input.Fairness)
		if err != nil {
			return err
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать проект")
		}
		if project.CategoryID != nil {
			if err := tx.Catalog().IncrementProjectCount(ctx, *project.CategoryID); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить категорию")
			}
		}

		created = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"project_id": created.ID,
		"client_id":  created.ClientID,
	}).Info("project: проект создан")

	return created, nil
}
