package hub_test

import (
	"context"
	"testing"
	"time"

	"facilitydesk/backend/internal/hub"
	"facilitydesk/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) (*hub.Manager, context.CancelFunc) {
	t.Helper()
	m := hub.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m, cancel
}

func TestManager_DeliversToRecipientOnly(t *testing.T) {
	m, _ := startManager(t)
	alice := newMockClient(3, 4)
	bob := newMockClient(7, 4)
	require.NoError(t, m.Register(alice))
	require.NoError(t, m.Register(bob))

	require.NoError(t, m.Publish(context.Background(), models.Notification{ID: 1, UserID: 3, Link: "/x/1"}))

	select {
	case n := <-alice.RecvChannel:
		assert.Equal(t, "/x/1", n.Link)
	case <-time.After(time.Second):
		t.Fatal("recipient did not receive the notification")
	}
	assert.Empty(t, bob.RecvChannel)
}

func TestManager_UnregisterClosesClient(t *testing.T) {
	m, _ := startManager(t)
	c := newMockClient(3, 1)
	require.NoError(t, m.Register(c))

	m.Unregister(c)

	assert.Eventually(t, c.Closed, time.Second, 10*time.Millisecond)
}

func TestManager_DropsSlowClient(t *testing.T) {
	m, _ := startManager(t)
	slow := newMockClient(9, 0)
	require.NoError(t, m.Register(slow))

	require.NoError(t, m.Publish(context.Background(), models.Notification{UserID: 9}))

	assert.Eventually(t, slow.Closed, time.Second, 10*time.Millisecond)
}

func TestManager_StopClosesClients(t *testing.T) {
	m, cancel := startManager(t)
	c := newMockClient(3, 1)
	require.NoError(t, m.Register(c))

	cancel()

	assert.Eventually(t, c.Closed, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return m.Register(newMockClient(4, 1)) == hub.ErrStopped
	}, time.Second, 10*time.Millisecond)
}
