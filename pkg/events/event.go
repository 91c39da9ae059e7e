package events

import "time"

// Event types published on the bus as "events.<type>".
const (
	RESERVATION_CREATED = "RESERVATION_CREATED"
)

type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the NATS subject the event is published on.
func Subject(eventType string) string {
	return "events." + eventType
}

// ReservationCreated is emitted once a reservation row and its slot booking
// are committed.
func ReservationCreated(id, userID, name, phone, date, slot string, people int, notes string) BaseEvent {
	return BaseEvent{
		Type: RESERVATION_CREATED,
		Data: map[string]interface{}{
			"id":      id,
			"user_id": userID,
			"name":    name,
			"phone":   phone,
			"date":    date,
			"time":    slot,
			"people":  people,
			"notes":   notes,
		},
		OccurredAt: time.Now(),
	}
}
