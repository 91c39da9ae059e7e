package model

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&BotConfig{}, &Intent{}, &Synonym{}, &Category{}, &Role{}, &BusinessHour{},
		&Product{}, &PricingRule{},
		&Conversation{}, &Message{},
		&RagDocument{}, &RagChunk{},
		&AgendaSlot{}, &Reservation{},
	}
}
