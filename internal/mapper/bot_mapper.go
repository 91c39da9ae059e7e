package mapper

import (
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
)

// BotMapper converts the configuration tables.
type BotMapper struct{}

func NewBotMapper() *BotMapper {
	return &BotMapper{}
}

func (m *BotMapper) IntentToEntity(e *model.Intent) *entity.Intent {
	if e == nil {
		return nil
	}
	return &entity.Intent{Id: e.Id, Name: e.Name, Phrases: []string(e.Phrases), Position: e.Position}
}

func (m *BotMapper) IntentToModel(e *entity.Intent) *model.Intent {
	if e == nil {
		return nil
	}
	return &model.Intent{Id: e.Id, Name: e.Name, Phrases: e.Phrases, Position: e.Position}
}

func (m *BotMapper) SynonymToEntity(e *model.Synonym) *entity.Synonym {
	if e == nil {
		return nil
	}
	return &entity.Synonym{Id: e.Id, Canonical: e.Canonical, Variants: []string(e.Variants)}
}

func (m *BotMapper) SynonymToModel(e *entity.Synonym) *model.Synonym {
	if e == nil {
		return nil
	}
	return &model.Synonym{Id: e.Id, Canonical: e.Canonical, Variants: e.Variants}
}

func (m *BotMapper) CategoryToEntity(e *model.Category) *entity.Category {
	if e == nil {
		return nil
	}
	return &entity.Category{Id: e.Id, Name: e.Name, Position: e.Position}
}

func (m *BotMapper) CategoryToModel(e *entity.Category) *model.Category {
	if e == nil {
		return nil
	}
	return &model.Category{Id: e.Id, Name: e.Name, Position: e.Position}
}

func (m *BotMapper) RoleToEntity(e *model.Role) *entity.Role {
	if e == nil {
		return nil
	}
	return &entity.Role{Id: e.Id, Name: e.Name, Capabilities: []string(e.Capabilities)}
}

func (m *BotMapper) RoleToModel(e *entity.Role) *model.Role {
	if e == nil {
		return nil
	}
	return &model.Role{Id: e.Id, Name: e.Name, Capabilities: e.Capabilities}
}

func (m *BotMapper) BusinessHourToEntity(e *model.BusinessHour) *entity.BusinessHour {
	if e == nil {
		return nil
	}
	return &entity.BusinessHour{Id: e.Id, Weekday: e.Weekday, Open: e.Open, Close: e.Close}
}

func (m *BotMapper) BusinessHourToModel(e *entity.BusinessHour) *model.BusinessHour {
	if e == nil {
		return nil
	}
	return &model.BusinessHour{Id: e.Id, Weekday: e.Weekday, Open: e.Open, Close: e.Close}
}
