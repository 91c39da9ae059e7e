package contract

import (
	"context"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
)

type BotConfigRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type IntentRepository interface {
	CrudRepository[entity.Intent]
}

type SynonymRepository interface {
	CrudRepository[entity.Synonym]
}

type CategoryRepository interface {
	CrudRepository[entity.Category]
}

type RoleRepository interface {
	CrudRepository[entity.Role]
}

type BusinessHourRepository interface {
	CrudRepository[entity.BusinessHour]
}
