// Package persistence реализует репозитории поверх sqlx.
// Запросы пишутся с плейсхолдерами ? и проходят через Rebind, поэтому
// один код работает и с PostgreSQL, и с SQLite.
package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
)

// queryer общий интерфейс *sqlx.DB и *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type Store struct {
	db *sqlx.DB
	q  queryer
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

// WithinTx выполняет fn в транзакции. Вложенные вызовы переиспользуют текущую.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if _, ok := s.q.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Users() repository.UserRepository { return NewUserRepositoryAdapter(s.q) }
func (s *Store) Profiles() repository.ProfileRepository {
	return NewProfileRepositoryAdapter(s.q)
}
func (s *Store) Projects() repository.ProjectRepository {
	return NewProjectRepositoryAdapter(s.q)
}
func (s *Store) Proposals() repository.ProposalRepository {
	return NewProposalRepositoryAdapter(s.q)
}
func (s *Store) Escrows() repository.EscrowRepository { return NewEscrowRepositoryAdapter(s.q) }
func (s *Store) Notifications() repository.NotificationRepository {
	return NewNotificationRepositoryAdapter(s.q)
}
func (s *Store) Catalog() repository.CatalogRepository { return NewCatalogRepositoryAdapter(s.q) }

var _ repository.Store = (*Store)(nil)

// isUniqueViolation распознаёт нарушение уникальности в обоих драйверах.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// jsonColumn хранит срез в текстовой колонке как JSON.
type jsonColumn[T any] struct {
	V T
}

func asJSON[T any](v T) jsonColumn[T] {
	return jsonColumn[T]{V: v}
}

func (c jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *jsonColumn[T]) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("jsonColumn: неожиданный тип %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &c.V)
}

// pageClause добавляет LIMIT/OFFSET. limit <= 0 означает без ограничения.
func pageClause(limit, offset int) (string, []interface{}) {
	if limit <= 0 && offset <= 0 {
		return "", nil
	}
	if limit <= 0 {
		// Оба диалекта понимают LIMIT с очень большим числом.
		limit = 1<<31 - 1
	}
	return " LIMIT ? OFFSET ?", []interface{}{limit, offset}
}
