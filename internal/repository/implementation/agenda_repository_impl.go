package implementation

import (
	"context"
	"errors"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/mapper"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgendaSlotRepositoryImpl struct {
	*crudRepository[entity.AgendaSlot, model.AgendaSlot]
	mapper *mapper.AgendaMapper
}

func NewAgendaSlotRepository(db *gorm.DB) contract.AgendaSlotRepository {
	m := mapper.NewAgendaMapper()
	return &AgendaSlotRepositoryImpl{
		crudRepository: &crudRepository[entity.AgendaSlot, model.AgendaSlot]{
			db: db, toEntity: m.SlotToEntity, toModel: m.SlotToModel,
			defaultOrder: slotOrder{},
		},
		mapper: m,
	}
}

type slotOrder struct{}

func (slotOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC").Order("time ASC")
}

func (r *AgendaSlotRepositoryImpl) FindSlot(ctx context.Context, date, time string) (*entity.AgendaSlot, error) {
	var m model.AgendaSlot
	if err := r.db.WithContext(ctx).Where("date = ? AND time = ?", date, time).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SlotToEntity(&m), nil
}

func (r *AgendaSlotRepositoryImpl) Book(ctx context.Context, id uuid.UUID, people int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AgendaSlot{}).
		Where("id = ? AND booked + ? <= capacity", id, people).
		UpdateColumn("booked", gorm.Expr("booked + ?", people))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type ReservationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgendaMapper
}

func NewReservationRepository(db *gorm.DB) contract.ReservationRepository {
	return &ReservationRepositoryImpl{db: db, mapper: mapper.NewAgendaMapper()}
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, res *entity.Reservation) error {
	if res.Status == "" {
		res.Status = entity.ReservationPending
	}
	m := r.mapper.ReservationToModel(res)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*res = *r.mapper.ReservationToEntity(m)
	return nil
}

func (r *ReservationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reservation, error) {
	var m model.Reservation
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReservationToEntity(&m), nil
}

func (r *ReservationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reservation, error) {
	if len(specs) == 0 {
		specs = []specification.Specification{specification.OrderBy{Field: "created_at", Desc: true}}
	}
	var models []*model.Reservation
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Reservation, len(models))
	for i, m := range models {
		out[i] = r.mapper.ReservationToEntity(m)
	}
	return out, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Reservation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}
