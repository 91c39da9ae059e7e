package implementation

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// crudRepository implements contract.CrudRepository for an entity E stored as model M.
type crudRepository[E any, M any] struct {
	db           *gorm.DB
	toEntity     func(*M) *E
	toModel      func(*E) *M
	defaultOrder specification.Specification
}

func (r *crudRepository[E, M]) Create(ctx context.Context, e *E) error {
	m := r.toModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*e = *r.toEntity(m)
	return nil
}

func (r *crudRepository[E, M]) Update(ctx context.Context, e *E) error {
	m := r.toModel(e)
	res := r.db.WithContext(ctx).Model(m).Select("*").Omit("created_at").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	*e = *r.toEntity(m)
	return nil
}

func (r *crudRepository[E, M]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(M), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *crudRepository[E, M]) FindOne(ctx context.Context, specs ...specification.Specification) (*E, error) {
	var m M
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *crudRepository[E, M]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*E, error) {
	var models []*M
	query := r.db.WithContext(ctx)
	if len(specs) == 0 && r.defaultOrder != nil {
		specs = []specification.Specification{r.defaultOrder}
	}
	query = applySpecifications(query, specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*E, len(models))
	for i, m := range models {
		entities[i] = r.toEntity(m)
	}
	return entities, nil
}

func (r *crudRepository[E, M]) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(new(M)), specs...)
	err := query.Count(&count).Error
	return count, err
}
