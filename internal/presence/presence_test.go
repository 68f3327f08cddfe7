package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/models"
)

func TestHubOnlineLifecycle(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.IsOnline("uid-1"))

	ch := hub.Subscribe("uid-1")
	assert.True(t, hub.IsOnline("uid-1"))

	hub.Unsubscribe("uid-1", ch)
	assert.False(t, hub.IsOnline("uid-1"))

	_, open := <-ch
	assert.False(t, open)
}

func TestHubDeliverFanOut(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("uid-1")
	second := hub.Subscribe("uid-1")

	n := &models.Notification{ID: 1, UserUID: "uid-1", Message: "Rent due"}
	require.True(t, hub.Deliver("uid-1", n))

	assert.Equal(t, n, <-first)
	assert.Equal(t, n, <-second)
}

func TestHubDeliverOffline(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.Deliver("uid-absent", &models.Notification{ID: 2}))
}

func TestHubDeliverSkipsFullStream(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("uid-1")
	for i := 0; i < cap(ch); i++ {
		require.True(t, hub.Deliver("uid-1", &models.Notification{ID: int64(i)}))
	}

	// Буфер заполнен, доставка в этот поток пропускается.
	assert.False(t, hub.Deliver("uid-1", &models.Notification{ID: 99}))
}

func TestHubUnsubscribeUnknownChannel(t *testing.T) {
	hub := NewHub()
	ch := make(chan *models.Notification)
	assert.NotPanics(t, func() { hub.Unsubscribe("uid-1", ch) })
}
