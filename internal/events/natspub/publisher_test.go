package natspub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/auctionhouse/internal/model"
)

func TestMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	event := model.Event{
		Type:      model.EventPlayerSold,
		Timestamp: at,
		PlayerID:  "P1",
		TeamID:    "T1",
		Payload: model.PlayerSoldPayload{Sale: model.SaleRecord{
			PlayerID: "P1", TeamID: "T1", Amount: 1_100_000, SoldAt: at,
		}},
	}

	msg, err := Message("auction.events", event)
	require.NoError(t, err)

	assert.Equal(t, "auction.events.player_sold", msg.Subject)
	assert.Equal(t, "player_sold", msg.Header.Get("Event-Type"))
	assert.NotEmpty(t, msg.Header.Get("Event-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, msg.Header.Get("Event-ID"), body["eventId"])
	assert.Equal(t, "player_sold", body["eventType"])
	assert.Equal(t, "P1", body["playerId"])
	payload, ok := body["payload"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, payload, "sale")
}

func TestMessageOmitsEmptyFields(t *testing.T) {
	msg, err := Message("x", model.Event{Type: model.EventAuctionComplete})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.NotContains(t, body, "playerId")
	assert.NotContains(t, body, "payload")
	assert.Equal(t, "x.auction_complete", msg.Subject)
}

func TestMessageIDsAreUnique(t *testing.T) {
	a, err := Message("x", model.Event{Type: model.EventBidPlaced})
	require.NoError(t, err)
	b, err := Message("x", model.Event{Type: model.EventBidPlaced})
	require.NoError(t, err)
	assert.NotEqual(t, a.Header.Get("Event-ID"), b.Header.Get("Event-ID"))
}
