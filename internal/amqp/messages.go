package amqp

import (
	"encoding/json"
	"time"
)

// RecordCreatedMessage tells the mirror worker that a record was added
// locally and the sheet may be behind. The worker re-diffs against the sheet
// on receipt, so losing or duplicating a message is harmless.
type RecordCreatedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordCreatedMessage(id string) *RecordCreatedMessage {
	return &RecordCreatedMessage{ID: id, Timestamp: time.Now().UTC()}
}

func (m *RecordCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordCreatedMessageFromJSON(data []byte) (*RecordCreatedMessage, error) {
	var m RecordCreatedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
