package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// Fixtures описание тестовых данных в YAML. Навыки и категории ссылаются по имени,
// пользователи и проекты по ключу key.
type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Skills     []SkillFixture    `yaml:"skills"`
	Users      []UserFixture     `yaml:"users"`
	Projects   []ProjectFixture  `yaml:"projects"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
}

type SkillFixture struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type UserFixture struct {
	Key      string          `yaml:"key"`
	Name     string          `yaml:"name"`
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	Role     string          `yaml:"role"`
	Profile  *ProfileFixture `yaml:"profile"`
}

type ProfileFixture struct {
	Bio               string   `yaml:"bio"`
	Skills            []string `yaml:"skills"`
	HourlyRate        *float64 `yaml:"hourly_rate"`
	ExperienceLevel   string   `yaml:"experience_level"`
	CompletedProjects int      `yaml:"completed_projects"`
	IsNewcomer        *bool    `yaml:"is_newcomer"`
	Languages         []string `yaml:"languages"`
}

type ProjectFixture struct {
	Key            string   `yaml:"key"`
	Client         string   `yaml:"client"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Category       string   `yaml:"category"`
	RequiredSkills []string `yaml:"required_skills"`
	Budget         struct {
		Min      float64 `yaml:"min"`
		Max      float64 `yaml:"max"`
		Currency string  `yaml:"currency"`
	} `yaml:"budget"`
	Fairness struct {
		SkillsFirstMatching bool `yaml:"skills_first_matching"`
		BlindProposalReview bool `yaml:"blind_proposal_review"`
		NewcomerBoost       bool `yaml:"newcomer_boost"`
		FairPaymentPromise  bool `yaml:"fair_payment_promise"`
	} `yaml:"fairness"`
}

// LoadFixtures читает YAML файл с данными.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: не удалось прочитать %s: %w", path, err)
	}
	return ParseFixtures(raw)
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed: некорректный YAML: %w", err)
	}
	return &f, nil
}

// SeedResult идентификаторы созданных (или найденных) записей по ключам фикстур.
type SeedResult struct {
	Users    map[string]uuid.UUID `json:"users"`
	Projects map[string]uuid.UUID `json:"projects"`
	Skills   map[string]uuid.UUID `json:"skills"`
	Created  int                  `json:"created"`
}

// SeedService загружает фикстуры в хранилище. Повторный запуск не дублирует
// категории, навыки, пользователей (по email) и проекты (по клиенту и названию).
type SeedService struct {
	store    repository.Store
	hashCost int
}

func NewSeedService(store repository.Store) *SeedService {
	return &SeedService{store: store, hashCost: bcrypt.DefaultCost}
}

// WithHashCost меняет стоимость bcrypt, например для офлайн ранжирования.
func (s *SeedService) WithHashCost(cost int) *SeedService {
	s.hashCost = cost
	return s
}

func (s *SeedService) Seed(ctx context.Context, f *Fixtures) (*SeedResult, error) {
	res := &SeedResult{
		Users:    make(map[string]uuid.UUID),
		Projects: make(map[string]uuid.UUID),
		Skills:   make(map[string]uuid.UUID),
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		categories, err := s.seedCategories(ctx, tx, f.Categories, res)
		if err != nil {
			return err
		}
		if err := s.seedSkills(ctx, tx, f.Skills, res); err != nil {
			return err
		}
		if err := s.seedUsers(ctx, tx, f.Users, res); err != nil {
			return err
		}
		return s.seedProjects(ctx, tx, f.Projects, categories, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SeedService) seedCategories(ctx context.Context, tx repository.Store, items []CategoryFixture, res *SeedResult) (map[string]uuid.UUID, error) {
	existing, err := tx.Catalog().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uuid.UUID, len(existing)+len(items))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	for _, item := range items {
		if _, ok := byName[strings.ToLower(strings.TrimSpace(item.Name))]; ok {
			continue
		}
		category, err := entity.NewCategory(item.Name, item.Description, item.Icon, item.Color)
		if err != nil {
			return nil, err
		}
		if err := tx.Catalog().CreateCategory(ctx, category); err != nil {
			return nil, err
		}
		byName[strings.ToLower(category.Name)] = category.ID
		res.Created++
	}
	return byName, nil
}

func (s *SeedService) seedSkills(ctx context.Context, tx repository.Store, items []SkillFixture, res *SeedResult) error {
	for _, item := range items {
		found, err := tx.Catalog().FindSkillByName(ctx, item.Name)
		if err != nil {
			return err
		}
		if found != nil {
			res.Skills[found.Name] = found.ID
			continue
		}
		skill, err := entity.NewSkill(item.Name, item.Category, item.Description)
		if err != nil {
			return err
		}
		if err := tx.Catalog().CreateSkill(ctx, skill); err != nil {
			return err
		}
		res.Skills[skill.Name] = skill.ID
		res.Created++
	}
	return nil
}

func (s *SeedService) seedUsers(ctx context.Context, tx repository.Store, items []UserFixture, res *SeedResult) error {
	for _, item := range items {
		if item.Key == "" {
			return apperror.Newf(apperror.ErrCodeValidation, "у пользователя %q нет key", item.Email)
		}
		email := strings.ToLower(strings.TrimSpace(item.Email))

		user, err := tx.Users().FindByEmail(ctx, email)
		switch {
		case err == nil:
			res.Users[item.Key] = user.ID
			continue
		case !apperror.IsNotFound(err):
			return err
		}

		role, err := valueobject.NewRole(item.Role)
		if err != nil {
			return err
		}
		password := item.Password
		if password == "" {
			password = "Password123"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
		}

		user, err = entity.NewUser(item.Name, email, string(hash), role)
		if err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		profile, err := s.profileFor(ctx, tx, user.ID, item.Profile, res)
		if err != nil {
			return err
		}
		if err := tx.Profiles().Upsert(ctx, profile); err != nil {
			return err
		}

		res.Users[item.Key] = user.ID
		res.Created++
	}
	return nil
}

func (s *SeedService) profileFor(ctx context.Context, tx repository.Store, userID uuid.UUID, pf *ProfileFixture, res *SeedResult) (*entity.Profile, error) {
	profile := entity.NewProfile(userID)
	if pf == nil {
		return profile, nil
	}

	level, err := valueobject.NewExperienceLevel(pf.ExperienceLevel)
	if err != nil {
		return nil, err
	}
	skills, err := s.skillIDs(ctx, tx, pf.Skills, res)
	if err != nil {
		return nil, err
	}

	profile.Bio = pf.Bio
	profile.Skills = skills
	profile.HourlyRate = pf.HourlyRate
	profile.ExperienceLevel = level
	profile.CompletedProjects = pf.CompletedProjects
	profile.Languages = pf.Languages
	// по умолчанию профиль новичка, как при регистрации
	if pf.IsNewcomer != nil {
		profile.IsNewcomer = *pf.IsNewcomer
	}
	return profile, nil
}

func (s *SeedService) seedProjects(ctx context.Context, tx repository.Store, items []ProjectFixture, categories map[string]uuid.UUID, res *SeedResult) error {
	for _, item := range items {
		if item.Key == "" {
			return apperror.Newf(apperror.ErrCodeValidation, "у проекта %q нет key", item.Title)
		}
		clientID, ok := res.Users[item.Client]
		if !ok {
			return apperror.Newf(apperror.ErrCodeValidation, "проект %s: неизвестный клиент %q", item.Key, item.Client)
		}

		owned, err := tx.Projects().FindByClientID(ctx, clientID)
		if err != nil {
			return err
		}
		if id, found := findByTitle(owned, item.Title); found {
			res.Projects[item.Key] = id
			continue
		}

		var categoryID *uuid.UUID
		if item.Category != "" {
			id, ok := categories[strings.ToLower(strings.TrimSpace(item.Category))]
			if !ok {
				return apperror.Newf(apperror.ErrCodeValidation, "проект %s: неизвестная категория %q", item.Key, item.Category)
			}
			categoryID = &id
		}

		skills, err := s.skillIDs(ctx, tx, item.RequiredSkills, res)
		if err != nil {
			return err
		}
		budget, err := valueobject.NewBudget(item.Budget.Min, item.Budget.Max, item.Budget.Currency)
		if err != nil {
			return err
		}

		project, err := entity.NewProject(clientID, item.Title, item.Description, categoryID, skills, budget, nil, entity.FairnessSettings{
			SkillsFirstMatching: item.Fairness.SkillsFirstMatching,
			BlindProposalReview: item.Fairness.BlindProposalReview,
			NewcomerBoost:       item.Fairness.NewcomerBoost,
			FairPaymentPromise:  item.Fairness.FairPaymentPromise,
		})
		if err != nil {
			return err
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}
		if categoryID != nil {
			if err := tx.Catalog().IncrementProjectCount(ctx, *categoryID); err != nil {
				return err
			}
		}

		res.Projects[item.Key] = project.ID
		res.Created++
	}
	return nil
}

func (s *SeedService) skillIDs(ctx context.Context, tx repository.Store, names []string, res *SeedResult) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		if id, ok := res.Skills[name]; ok {
			ids = append(ids, id)
			continue
		}
		skill, err := tx.Catalog().FindSkillByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if skill == nil {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный навык %q", name)
		}
		res.Skills[skill.Name] = skill.ID
		ids = append(ids, skill.ID)
	}
	return ids, nil
}

func findByTitle(projects []*entity.Project, title string) (uuid.UUID, bool) {
	title = strings.TrimSpace(title)
	for _, p := range projects {
		if p.Title == title {
			return p.ID, true
		}
	}
	return uuid.Nil, false
}
