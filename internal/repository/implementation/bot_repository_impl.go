package implementation

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/mapper"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BotConfigRepositoryImpl struct {
	db *gorm.DB
}

func NewBotConfigRepository(db *gorm.DB) contract.BotConfigRepository {
	return &BotConfigRepositoryImpl{db: db}
}

func (r *BotConfigRepositoryImpl) All(ctx context.Context) (map[string]string, error) {
	var rows []model.BotConfig
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *BotConfigRepositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var row model.BotConfig
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (r *BotConfigRepositoryImpl) Set(ctx context.Context, key, value string) error {
	row := model.BotConfig{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (r *BotConfigRepositoryImpl) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.BotConfig{}).Error
}

func NewIntentRepository(db *gorm.DB) contract.IntentRepository {
	m := mapper.NewBotMapper()
	return &crudRepository[entity.Intent, model.Intent]{
		db: db, toEntity: m.IntentToEntity, toModel: m.IntentToModel,
		defaultOrder: specification.ByPosition{},
	}
}

func NewSynonymRepository(db *gorm.DB) contract.SynonymRepository {
	m := mapper.NewBotMapper()
	return &crudRepository[entity.Synonym, model.Synonym]{
		db: db, toEntity: m.SynonymToEntity, toModel: m.SynonymToModel,
		defaultOrder: specification.OrderBy{Field: "canonical"},
	}
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	m := mapper.NewBotMapper()
	return &crudRepository[entity.Category, model.Category]{
		db: db, toEntity: m.CategoryToEntity, toModel: m.CategoryToModel,
		defaultOrder: specification.ByPosition{},
	}
}

func NewRoleRepository(db *gorm.DB) contract.RoleRepository {
	m := mapper.NewBotMapper()
	return &crudRepository[entity.Role, model.Role]{
		db: db, toEntity: m.RoleToEntity, toModel: m.RoleToModel,
		defaultOrder: specification.OrderBy{Field: "name"},
	}
}

func NewBusinessHourRepository(db *gorm.DB) contract.BusinessHourRepository {
	m := mapper.NewBotMapper()
	return &crudRepository[entity.BusinessHour, model.BusinessHour]{
		db: db, toEntity: m.BusinessHourToEntity, toModel: m.BusinessHourToModel,
		defaultOrder: specification.OrderBy{Field: "weekday"},
	}
}
