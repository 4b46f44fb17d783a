package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
		{"split", EventTypeSplit, "split"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"service record", EntityTypeServiceRecord, "service_record"},
		{"expense", EntityTypeExpense, "expense"},
		{"vehicle", EntityTypeVehicle, "vehicle"},
		{"driver", EntityTypeDriver, "driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":          1,
		"osNumber":    "OS-100",
		"grossAmount": "1500.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeServiceRecord, payload)
	after := time.Now()

	assert.Equal(t, "service_record.created", evt.Type)
	assert.Equal(t, EntityTypeServiceRecord, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":          float64(1),
		"osNumber":    "OS-100",
		"grossAmount": "1500.00",
	}

	evt := Event{
		Type:      "service_record.created",
		Entity:    EntityTypeServiceRecord,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "OS-100", decodedPayload["osNumber"])
	assert.Equal(t, "1500.00", decodedPayload["grossAmount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeExpense, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "expense.updated", decoded["type"])
	assert.Equal(t, "expense", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestServiceRecordEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":       float64(1),
		"osNumber": "OS-100",
	}

	t.Run("ServiceRecordCreated", func(t *testing.T) {
		evt := ServiceRecordCreated(payload)
		assert.Equal(t, "service_record.created", evt.Type)
		assert.Equal(t, EntityTypeServiceRecord, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ServiceRecordUpdated", func(t *testing.T) {
		evt := ServiceRecordUpdated(payload)
		assert.Equal(t, "service_record.updated", evt.Type)
		assert.Equal(t, EntityTypeServiceRecord, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ServiceRecordDeleted", func(t *testing.T) {
		evt := ServiceRecordDeleted(payload)
		assert.Equal(t, "service_record.deleted", evt.Type)
		assert.Equal(t, EntityTypeServiceRecord, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ServiceRecordSplit", func(t *testing.T) {
		evt := ServiceRecordSplit(payload)
		assert.Equal(t, "service_record.split", evt.Type)
		assert.Equal(t, EntityTypeServiceRecord, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestVehicleAndDriverEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(7)}

	t.Run("VehicleCreated", func(t *testing.T) {
		evt := VehicleCreated(payload)
		assert.Equal(t, "vehicle.created", evt.Type)
		assert.Equal(t, EntityTypeVehicle, evt.Entity)
	})

	t.Run("VehicleDeleted", func(t *testing.T) {
		evt := VehicleDeleted(payload)
		assert.Equal(t, "vehicle.deleted", evt.Type)
	})

	t.Run("DriverUpdated", func(t *testing.T) {
		evt := DriverUpdated(payload)
		assert.Equal(t, "driver.updated", evt.Type)
		assert.Equal(t, EntityTypeDriver, evt.Entity)
	})
}
