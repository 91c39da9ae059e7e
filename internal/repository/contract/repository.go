package contract

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrNotFound is returned by writes that target a missing row. Reads return
// a nil entity instead.
var ErrNotFound = errors.New("repository: record not found")

// CrudRepository is the common shape of the admin-managed tables.
type CrudRepository[T any] interface {
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*T, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*T, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
