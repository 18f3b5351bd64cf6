package kafka

import (
	"encoding/json"
	"time"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	ImportMessage *models.ImportMessage
}

// ParseImportMessage parses the message value as an import envelope
func (m *IncomingMessage) ParseImportMessage() error {
	var msg models.ImportMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	m.ImportMessage = &msg
	return nil
}

// GetSource returns the ingestion source, falling back to the header set by
// older pipeline versions.
func (m *IncomingMessage) GetSource() models.Source {
	if m.ImportMessage != nil {
		return m.ImportMessage.Source
	}
	return models.Source(m.Headers["source"])
}

// GetProviderID returns the provider-native id for the record
func (m *IncomingMessage) GetProviderID() string {
	if m.ImportMessage != nil {
		return m.ImportMessage.ProviderID
	}
	return ""
}
