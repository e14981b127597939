// Package memory хранит данные в памяти процесса. Используется в тестах и при DB_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
)

type state struct {
	users         map[uuid.UUID]entity.User
	profiles      map[uuid.UUID]entity.Profile
	projects      map[uuid.UUID]entity.Project
	proposals     map[uuid.UUID]entity.Proposal
	escrows       map[uuid.UUID]entity.EscrowTransaction
	notifications map[uuid.UUID]entity.Notification
	categories    map[uuid.UUID]entity.Category
	skills        map[uuid.UUID]entity.Skill
	// seq порядок вставки, чтобы выдача была детерминированной.
	seq   map[uuid.UUID]int64
	clock int64
}

func newState() *state {
	return &state{
		users:         make(map[uuid.UUID]entity.User),
		profiles:      make(map[uuid.UUID]entity.Profile),
		projects:      make(map[uuid.UUID]entity.Project),
		proposals:     make(map[uuid.UUID]entity.Proposal),
		escrows:       make(map[uuid.UUID]entity.EscrowTransaction),
		notifications: make(map[uuid.UUID]entity.Notification),
		categories:    make(map[uuid.UUID]entity.Category),
		skills:        make(map[uuid.UUID]entity.Skill),
		seq:           make(map[uuid.UUID]int64),
	}
}

func (s *state) touch(id uuid.UUID) {
	if _, ok := s.seq[id]; ok {
		return
	}
	s.clock++
	s.seq[id] = s.clock
}

func (s *state) clone() *state {
	c := newState()
	c.clock = s.clock
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.proposals {
		c.proposals[k] = v
	}
	for k, v := range s.escrows {
		c.escrows[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.skills {
		c.skills[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store реализует repository.Store поверх map'ов.
// Сущности хранятся по значению, наружу отдаются копии.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, data: newState()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx выполняет fn под общей блокировкой и откатывает состояние при ошибке или панике.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			*s.data = *snapshot
			panic(p)
		}
		if err != nil {
			*s.data = *snapshot
		}
	}()

	return fn(&Store{mu: s.mu, data: s.data, inTx: true})
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository           { return &profileRepo{s} }
func (s *Store) Projects() repository.ProjectRepository           { return &projectRepo{s} }
func (s *Store) Proposals() repository.ProposalRepository         { return &proposalRepo{s} }
func (s *Store) Escrows() repository.EscrowRepository             { return &escrowRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }
func (s *Store) Catalog() repository.CatalogRepository            { return &catalogRepo{s} }

var _ repository.Store = (*Store)(nil)
