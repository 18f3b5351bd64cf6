package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

func TestParseImportMessage(t *testing.T) {
	jsonData := `{
		"source": "google",
		"provider_id": "ChIJ-sagrada",
		"coordinate": {"latitude": 41.4036, "longitude": 2.1744},
		"fields": {
			"name": "Sagrada Familia",
			"rating": 4.7,
			"rating_count": 250000
		},
		"raw": {"place_id": "ChIJ-sagrada", "types": ["church"]},
		"scraped_at": "2026-03-01T12:00:00Z",
		"type_tags": ["church", "tourist_attraction"]
	}`

	msg := &IncomingMessage{Value: []byte(jsonData)}
	err := msg.ParseImportMessage()
	require.NoError(t, err)

	require.NotNil(t, msg.ImportMessage)
	assert.Equal(t, models.SourceGoogle, msg.ImportMessage.Source)
	assert.Equal(t, "ChIJ-sagrada", msg.ImportMessage.ProviderID)
	assert.Equal(t, "Sagrada Familia", msg.ImportMessage.Name())
	assert.InDelta(t, 41.4036, msg.ImportMessage.Coordinate.Latitude, 0.0001)
	assert.Equal(t, []string{"church", "tourist_attraction"}, msg.ImportMessage.TypeTags)
}

func TestParseImportMessage_Invalid(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{not json`)}
		err := msg.ParseImportMessage()
		require.Error(t, err)
		assert.Nil(t, msg.ImportMessage)
	})

	t.Run("missing source", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"fields": {"name": "Somewhere"}}`)}
		err := msg.ParseImportMessage()
		require.Error(t, err)
	})

	t.Run("missing name field", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"source": "osm", "fields": {}}`)}
		err := msg.ParseImportMessage()
		require.Error(t, err)
	})
}

func TestGetSource(t *testing.T) {
	t.Run("from parsed message", func(t *testing.T) {
		msg := &IncomingMessage{ImportMessage: &models.ImportMessage{Source: models.SourceOSM}}
		assert.Equal(t, models.SourceOSM, msg.GetSource())
	})

	t.Run("falls back to header", func(t *testing.T) {
		msg := &IncomingMessage{Headers: map[string]string{"source": "fsq"}}
		assert.Equal(t, models.SourceFoursquare, msg.GetSource())
	})
}

func TestGetProviderID(t *testing.T) {
	msg := &IncomingMessage{ImportMessage: &models.ImportMessage{ProviderID: "node-123"}}
	assert.Equal(t, "node-123", msg.GetProviderID())

	empty := &IncomingMessage{}
	assert.Equal(t, "", empty.GetProviderID())
}
