package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeSplit   EventType = "split"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeServiceRecord EntityType = "service_record"
	EntityTypeExpense       EntityType = "expense"
	EntityTypeVehicle       EntityType = "vehicle"
	EntityTypeDriver        EntityType = "driver"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "service_record.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "service_record"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ServiceRecordCreated creates a service_record.created event
func ServiceRecordCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeServiceRecord, payload)
}

// ServiceRecordUpdated creates a service_record.updated event
func ServiceRecordUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeServiceRecord, payload)
}

// ServiceRecordDeleted creates a service_record.deleted event
func ServiceRecordDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeServiceRecord, payload)
}

// ServiceRecordSplit creates a service_record.split event
func ServiceRecordSplit(payload interface{}) Event {
	return NewEvent(EventTypeSplit, EntityTypeServiceRecord, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// VehicleCreated creates a vehicle.created event
func VehicleCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeVehicle, payload)
}

// VehicleUpdated creates a vehicle.updated event
func VehicleUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeVehicle, payload)
}

// VehicleDeleted creates a vehicle.deleted event
func VehicleDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeVehicle, payload)
}

// DriverCreated creates a driver.created event
func DriverCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDriver, payload)
}

// DriverUpdated creates a driver.updated event
func DriverUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDriver, payload)
}

// DriverDeleted creates a driver.deleted event
func DriverDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDriver, payload)
}
