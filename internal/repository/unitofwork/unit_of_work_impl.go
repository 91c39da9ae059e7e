package unitofwork

import (
	"context"
	"fmt"

	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // set between Begin and Commit/Rollback
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) BotConfigRepository() contract.BotConfigRepository {
	return implementation.NewBotConfigRepository(u.getDB())
}

func (u *UnitOfWorkImpl) IntentRepository() contract.IntentRepository {
	return implementation.NewIntentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SynonymRepository() contract.SynonymRepository {
	return implementation.NewSynonymRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CategoryRepository() contract.CategoryRepository {
	return implementation.NewCategoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RoleRepository() contract.RoleRepository {
	return implementation.NewRoleRepository(u.getDB())
}

func (u *UnitOfWorkImpl) BusinessHourRepository() contract.BusinessHourRepository {
	return implementation.NewBusinessHourRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ProductRepository() contract.ProductRepository {
	return implementation.NewProductRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PricingRuleRepository() contract.PricingRuleRepository {
	return implementation.NewPricingRuleRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ConversationRepository() contract.ConversationRepository {
	return implementation.NewConversationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RagDocumentRepository() contract.RagDocumentRepository {
	return implementation.NewRagDocumentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RagChunkRepository() contract.RagChunkRepository {
	return implementation.NewRagChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgendaSlotRepository() contract.AgendaSlotRepository {
	return implementation.NewAgendaSlotRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ReservationRepository() contract.ReservationRepository {
	return implementation.NewReservationRepository(u.getDB())
}
