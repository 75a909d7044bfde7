package hub_test

import (
	"sync/atomic"

	"facilitydesk/backend/internal/models"
)

type MockClient struct {
	userID      uint
	RecvChannel chan models.Notification
	closed      atomic.Bool
}

func newMockClient(userID uint, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.Notification, buffer),
	}
}

func (c *MockClient) UserID() uint                            { return c.userID }
func (c *MockClient) SendChannel() chan<- models.Notification { return c.RecvChannel }
func (c *MockClient) Run()                                    {}
func (c *MockClient) Close()                                  { c.closed.Store(true) }
func (c *MockClient) Closed() bool                            { return c.closed.Load() }
