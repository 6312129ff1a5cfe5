package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"suitadmin/internal/apierr"
)

// Entity is implemented by every stored model.
type Entity interface {
	TableName() string
}

// Repository provides generic CRUD operations for any entity type.
// Missing rows are reported as NOT_FOUND and key collisions as CONFLICT.
type Repository[T Entity] struct {
	db        *gorm.DB
	tableName string
}

// NewRepository creates a new repository for type T.
func NewRepository[T Entity](db *gorm.DB) *Repository[T] {
	var zero T
	return &Repository[T]{db: db, tableName: zero.TableName()}
}

// Create inserts entity and fills in generated fields.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.translate(err, "create")
	}
	log.Debug().Str("table", r.tableName).Msg("Entity created")
	return nil
}

// GetByID retrieves an entity by its primary key.
func (r *Repository[T]) GetByID(ctx context.Context, id any) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, r.translate(err, "get")
	}
	return &entity, nil
}

// Delete removes the entity with the given primary key. Deleting a missing
// row is not an error.
func (r *Repository[T]) Delete(ctx context.Context, id any) error {
	var zero T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&zero).Error; err != nil {
		return r.translate(err, "delete")
	}
	return nil
}

// Count returns the number of entities matching the condition. An empty
// condition counts every row.
func (r *Repository[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var zero T
	tx := r.db.WithContext(ctx).Model(&zero)
	if query != "" {
		tx = tx.Where(query, args...)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, r.translate(err, "count")
	}
	return n, nil
}

func (r *Repository[T]) translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.Wrap(apierr.CodeNotFound, fmt.Sprintf("%s not found", r.tableName), err)
	case isUniqueViolation(err):
		return apierr.Wrap(apierr.CodeConflict, fmt.Sprintf("%s already exists", r.tableName), err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, r.tableName, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
