package unitofwork

import (
	"context"

	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BotConfigRepository() contract.BotConfigRepository
	IntentRepository() contract.IntentRepository
	SynonymRepository() contract.SynonymRepository
	CategoryRepository() contract.CategoryRepository
	RoleRepository() contract.RoleRepository
	BusinessHourRepository() contract.BusinessHourRepository

	ProductRepository() contract.ProductRepository
	PricingRuleRepository() contract.PricingRuleRepository

	ConversationRepository() contract.ConversationRepository

	RagDocumentRepository() contract.RagDocumentRepository
	RagChunkRepository() contract.RagChunkRepository

	AgendaSlotRepository() contract.AgendaSlotRepository
	ReservationRepository() contract.ReservationRepository
}
