// Package repository implements user-scoped persistence shared by every
// resource type. Each operation filters on the owning user inside a single
// query and runs in one database transaction.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgForeignKeyViolation is the SQLSTATE PostgreSQL reports for a broken foreign key.
const pgForeignKeyViolation = "23503"

var (
	// ErrNotFound is returned when no row matches both the id and the owner.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a write names a row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Owned is implemented by models that carry an owning user.
type Owned interface {
	SetOwner(userID string)
}

// Scope narrows a list query. Scopes are ANDed onto the owner filter.
type Scope = func(*gorm.DB) *gorm.DB

// Repository provides list/get/create/update/delete for one model type,
// always restricted to a single user's rows.
type Repository[T any, PT interface {
	*T
	Owned
}] struct {
	db *gorm.DB
}

// New creates a Repository for model T.
func New[T any, PT interface {
	*T
	Owned
}](db *gorm.DB) *Repository[T, PT] {
	return &Repository[T, PT]{db: db}
}

// List returns the user's rows matching every scope, oldest first.
func (r *Repository[T, PT]) List(ctx context.Context, userID string, scopes ...Scope) ([]T, error) {
	items := []T{}
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ?", userID).
		Scopes(scopes...).
		Order("created_at, id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// Get returns the row with id owned by userID, or ErrNotFound.
func (r *Repository[T, PT]) Get(ctx context.Context, userID, id string) (*T, error) {
	return r.get(r.db.WithContext(ctx), userID, id)
}

// Exists reports whether userID owns a row with id.
func (r *Repository[T, PT]) Exists(ctx context.Context, userID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// Create stores item as owned by userID, ignoring any owner already set on it.
func (r *Repository[T, PT]) Create(ctx context.Context, userID string, item PT) error {
	item.SetOwner(userID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Create(item).Error)
	})
}

// Update applies updates (column name to value) to the user's row with id and
// returns the stored result. Columns missing from updates are left untouched.
func (r *Repository[T, PT]) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*T, error) {
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.get(tx, userID, id)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(PT(item)).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
				return translate(err)
			}
		}

		updated, err = r.get(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the user's row with id. It returns false when no such row
// exists; dependent rows follow the schema's cascade and nullify rules.
func (r *Repository[T, PT]) Delete(ctx context.Context, userID, id string) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.get(tx, userID, id)
		if err != nil {
			return err
		}
		return translate(tx.Where("user_id = ?", userID).Delete(PT(item)).Error)
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository[T, PT]) get(db *gorm.DB, userID, id string) (*T, error) {
	item := new(T)
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	}
	return err
}

// Where returns a Scope that adds a parameterized condition.
func Where(query string, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}
