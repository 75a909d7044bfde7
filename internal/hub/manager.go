// Package hub pushes freshly created notifications to connected users over
// websockets, optionally relayed between instances through Redis.
package hub

import (
	"context"
	"errors"

	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/metrics"
	"facilitydesk/backend/internal/models"
)

var ErrStopped = errors.New("hub: manager is not running")

// Manager owns the set of connected clients. All mutations happen on the
// goroutine running Run.
type Manager struct {
	clients map[uint]map[Client]struct{}

	registerCh   chan Client
	unregisterCh chan Client
	deliverCh    chan models.Notification
	done         chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:      make(map[uint]map[Client]struct{}),
		registerCh:   make(chan Client),
		unregisterCh: make(chan Client),
		deliverCh:    make(chan models.Notification, 64),
		done:         make(chan struct{}),
	}
}

// Run serves registrations and deliveries until ctx is cancelled, then
// closes every remaining client.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			for _, set := range m.clients {
				for c := range set {
					c.Close()
					metrics.LiveClients.Dec()
				}
			}
			m.clients = map[uint]map[Client]struct{}{}
			return

		case c := <-m.registerCh:
			set, ok := m.clients[c.UserID()]
			if !ok {
				set = make(map[Client]struct{})
				m.clients[c.UserID()] = set
			}
			set[c] = struct{}{}
			metrics.LiveClients.Inc()
			logger.Log.WithField("user_id", c.UserID()).Debug("live client connected")

		case c := <-m.unregisterCh:
			m.remove(c)

		case n := <-m.deliverCh:
			for c := range m.clients[n.UserID] {
				select {
				case c.SendChannel() <- n:
				default:
					// slow consumer
					logger.Log.WithField("user_id", n.UserID).Warn("live client buffer full, disconnecting")
					m.remove(c)
				}
			}
		}
	}
}

func (m *Manager) remove(c Client) {
	set, ok := m.clients[c.UserID()]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(m.clients, c.UserID())
	}
	c.Close()
	metrics.LiveClients.Dec()
}

// Register adds a client. It blocks until the manager accepts it.
func (m *Manager) Register(c Client) error {
	select {
	case m.registerCh <- c:
		return nil
	case <-m.done:
		return ErrStopped
	}
}

// Unregister removes and closes a client. Unknown clients are ignored.
func (m *Manager) Unregister(c Client) {
	select {
	case m.unregisterCh <- c:
	case <-m.done:
	}
}

// Publish hands a notification to the clients of its recipient on this
// instance.
func (m *Manager) Publish(ctx context.Context, n models.Notification) error {
	select {
	case m.deliverCh <- n:
		return nil
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
