package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventPublisherEnvelope(t *testing.T) {
	publisher := NewEventPublisher(nil, ".padidoc.", testLogger()).(*natsPublisher)
	publisher.now = func() time.Time { return time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC) }

	subject := publisher.subject(SubjectStockLow)
	require.Equal(t, "padidoc.stock.low", subject)

	payload, err := publisher.encode(subject, LowStockEvent{StokID: 3, JenisItem: "beras", Jumlah: dec("20")})
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	require.NotEmpty(t, event.ID)
	require.Equal(t, "padidoc.stock.low", event.Subject)
	require.True(t, event.OccurredAt.Equal(publisher.now()))

	var data LowStockEvent
	require.NoError(t, json.Unmarshal(event.Data, &data))
	require.Equal(t, "beras", data.JenisItem)
	require.True(t, dec("20").Equal(data.Jumlah))

	require.NotPanics(t, func() {
		publisher.Publish(context.Background(), SubjectStockLow, map[string]string{"item": "beras"})
	})
}
