package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"bplog/internal/core"
)

// MeasurementRecordedMessage announces a stored measurement. Consumers only need
// the timestamp to know which monthly report went stale.
type MeasurementRecordedMessage struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	TimePeriod  string    `json:"time_period,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NewMeasurementRecordedMessage creates a message for m
func NewMeasurementRecordedMessage(m core.Measurement) *MeasurementRecordedMessage {
	return &MeasurementRecordedMessage{
		ID:          m.ID,
		Timestamp:   m.Timestamp,
		TimePeriod:  string(m.Period),
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MeasurementRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MeasurementRecordedMessageFromJSON creates a message from JSON bytes
func MeasurementRecordedMessageFromJSON(data []byte) (*MeasurementRecordedMessage, error) {
	var msg MeasurementRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 || msg.Timestamp.IsZero() {
		return nil, fmt.Errorf("incomplete measurement message: id=%d timestamp=%v", msg.ID, msg.Timestamp)
	}
	return &msg, nil
}
