package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/externaldb"
)

// CrudService exposes one admin-managed table.
type CrudService[T any] struct {
	uowFactory unitofwork.RepositoryFactory
	repo       func(unitofwork.UnitOfWork) contract.CrudRepository[T]
	listSpecs  []specification.Specification
}

func NewCrudService[T any](uowFactory unitofwork.RepositoryFactory, repo func(unitofwork.UnitOfWork) contract.CrudRepository[T], listSpecs ...specification.Specification) *CrudService[T] {
	return &CrudService[T]{uowFactory: uowFactory, repo: repo, listSpecs: listSpecs}
}

func (s *CrudService[T]) r(ctx context.Context) contract.CrudRepository[T] {
	return s.repo(s.uowFactory.NewUnitOfWork(ctx))
}

func (s *CrudService[T]) List(ctx context.Context) ([]*T, error) {
	return s.r(ctx).FindAll(ctx, s.listSpecs...)
}

// Get returns contract.ErrNotFound for a missing id.
func (s *CrudService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	e, err := s.r(ctx).FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, contract.ErrNotFound
	}
	return e, nil
}

func (s *CrudService[T]) Create(ctx context.Context, e *T) error {
	return s.r(ctx).Create(ctx, e)
}

func (s *CrudService[T]) Update(ctx context.Context, e *T) error {
	return s.r(ctx).Update(ctx, e)
}

func (s *CrudService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.r(ctx).Delete(ctx, id)
}

// AdminResources groups the table services behind /api/admin/v1.
type AdminResources struct {
	Intents       *CrudService[entity.Intent]
	Synonyms      *CrudService[entity.Synonym]
	Categories    *CrudService[entity.Category]
	Roles         *CrudService[entity.Role]
	BusinessHours *CrudService[entity.BusinessHour]
	Products      *CrudService[entity.Product]
	Rules         *CrudService[entity.PricingRule]
	Slots         *CrudService[entity.AgendaSlot]
}

func NewAdminResources(f unitofwork.RepositoryFactory) *AdminResources {
	return &AdminResources{
		Intents: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.Intent] {
			return u.IntentRepository()
		}, specification.ByPosition{}),
		Synonyms: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.Synonym] {
			return u.SynonymRepository()
		}),
		Categories: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.Category] {
			return u.CategoryRepository()
		}, specification.ByPosition{}),
		Roles: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.Role] {
			return u.RoleRepository()
		}),
		BusinessHours: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.BusinessHour] {
			return u.BusinessHourRepository()
		}),
		Products: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.Product] {
			return u.ProductRepository()
		}),
		Rules: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.PricingRule] {
			return u.PricingRuleRepository()
		}, specification.ByPosition{}),
		Slots: NewCrudService(f, func(u unitofwork.UnitOfWork) contract.CrudRepository[entity.AgendaSlot] {
			return u.AgendaSlotRepository()
		}),
	}
}

type IAdminService interface {
	GetConfig(ctx context.Context) (map[string]string, error)
	SetConfig(ctx context.Context, values map[string]string) error
	DeleteConfig(ctx context.Context, key string) error
	GetExternalDB(ctx context.Context) (externaldb.Settings, error)
	SetExternalDB(ctx context.Context, s externaldb.Settings) error
	ReadLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	settings   *SettingsLoader
	logs       logger.LogReader
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, settings *SettingsLoader, logs logger.LogReader) IAdminService {
	return &adminService{uowFactory: uowFactory, settings: settings, logs: logs}
}

func (s *adminService) GetConfig(ctx context.Context) (map[string]string, error) {
	return s.uowFactory.NewUnitOfWork(ctx).BotConfigRepository().All(ctx)
}

// SetConfig writes all keys in one transaction.
func (s *adminService) SetConfig(ctx context.Context, values map[string]string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if err := uow.BotConfigRepository().Set(ctx, k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return uow.Commit()
}

func (s *adminService) DeleteConfig(ctx context.Context, key string) error {
	return s.uowFactory.NewUnitOfWork(ctx).BotConfigRepository().Delete(ctx, key)
}

func (s *adminService) GetExternalDB(ctx context.Context) (externaldb.Settings, error) {
	return s.settings.ExternalDB(ctx)
}

// SetExternalDB rejects an allow-list whose first entry is not a single
// SELECT, the only statement the catalog source runs.
func (s *adminService) SetExternalDB(ctx context.Context, cfg externaldb.Settings) error {
	if len(cfg.AllowedSQL) > 0 {
		if _, err := externaldb.CatalogQuery(cfg.AllowedSQL); err != nil {
			return err
		}
	}
	allowed, err := json.Marshal(cfg.AllowedSQL)
	if err != nil {
		return err
	}
	if cfg.AllowedSQL == nil {
		allowed = []byte("[]")
	}
	return s.SetConfig(ctx, map[string]string{
		KeyExternalDBURL:      strings.TrimSpace(cfg.URL),
		KeyExternalAllowedSQL: string(allowed),
	})
}

func (s *adminService) ReadLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	if s.logs == nil {
		return []logger.LogEntry{}, nil
	}
	return s.logs.ReadLogs(strings.ToUpper(level), limit, offset)
}
