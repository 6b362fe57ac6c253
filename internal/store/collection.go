// Package store adapts GORM tables to a small document-collection API:
// find, insert, update and delete addressed by a single string-valued field.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoDocument is returned when no document matches a filter
	ErrNoDocument = errors.New("store: no document matches filter")
	// ErrDuplicate is returned when an insert or update violates a unique index
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrUnknownField is returned for filter or update fields the collection does not expose
	ErrUnknownField = errors.New("store: unknown field")
)

// Collection is a typed view over one table
type Collection[T any] struct {
	db     *gorm.DB
	name   string
	fields map[string]struct{}
}

// NewCollection creates a collection; fields lists the columns that may be used
// in filters and updates.
func NewCollection[T any](db *gorm.DB, name string, fields ...string) *Collection[T] {
	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f] = struct{}{}
	}
	return &Collection[T]{db: db, name: name, fields: allowed}
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) filter(field, value string) (clause.Expression, error) {
	if _, ok := c.fields[field]; !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, c.name, field)
	}
	return clause.Eq{Column: clause.Column{Name: field}, Value: value}, nil
}

// FindOne returns the first document whose field equals value
func (c *Collection[T]) FindOne(ctx context.Context, field, value string) (*T, error) {
	cond, err := c.filter(field, value)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := c.db.WithContext(ctx).Table(c.name).Where(cond).Order("created_at").First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("find %s by %s: %w", c.name, field, err)
	}
	return &doc, nil
}

// Exists reports whether any document has field equal to value
func (c *Collection[T]) Exists(ctx context.Context, field, value string) (bool, error) {
	cond, err := c.filter(field, value)
	if err != nil {
		return false, err
	}

	var count int64
	if err := c.db.WithContext(ctx).Table(c.name).Where(cond).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count %s by %s: %w", c.name, field, err)
	}
	return count > 0, nil
}

// Find returns every document in insertion order
func (c *Collection[T]) Find(ctx context.Context) ([]T, error) {
	docs := []T{}
	if err := c.db.WithContext(ctx).Table(c.name).Order("created_at").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return docs, nil
}

// InsertOne stores a new document
func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) error {
	if err := c.db.WithContext(ctx).Table(c.name).Create(doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	return nil
}

// UpdateOne sets the given columns on the documents matching field=value and
// returns how many matched. Only declared fields may be set.
func (c *Collection[T]) UpdateOne(ctx context.Context, field, value string, set map[string]any) (int64, error) {
	cond, err := c.filter(field, value)
	if err != nil {
		return 0, err
	}
	if len(set) == 0 {
		return 0, fmt.Errorf("update %s: empty update", c.name)
	}
	for column := range set {
		if _, ok := c.fields[column]; !ok {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, c.name, column)
		}
	}

	result := c.db.WithContext(ctx).Model(new(T)).Table(c.name).Where(cond).Updates(set)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("update %s: %w", c.name, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOne removes the documents matching field=value
func (c *Collection[T]) DeleteOne(ctx context.Context, field, value string) (int64, error) {
	cond, err := c.filter(field, value)
	if err != nil {
		return 0, err
	}

	result := c.db.WithContext(ctx).Table(c.name).Where(cond).Delete(new(T))
	if result.Error != nil {
		return 0, fmt.Errorf("delete %s: %w", c.name, result.Error)
	}
	return result.RowsAffected, nil
}

// Ping checks that the underlying database answers
func (c *Collection[T]) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
