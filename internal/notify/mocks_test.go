package notify_test

import (
	"context"
	"sync"
	"time"

	"facilitydesk/backend/internal/mailer"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/notify"

	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

// sentTo returns the recipient addresses of every Send call.
func (m *MockMailer) sentTo() []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method == "Send" {
			out = append(out, call.Arguments.Get(0).(mailer.Message).ToEmail)
		}
	}
	return out
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (p *recordingPublisher) Publish(ctx context.Context, n models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return nil
}

type MockDispatcher struct {
	mock.Mock
}

func (d *MockDispatcher) Dispatch(ctx context.Context, ev notify.Event) {
	d.Called(ev)
}

type MockQueue struct {
	mock.Mock
}

func (q *MockQueue) PushEvent(ctx context.Context, key string, payload []byte) error {
	args := q.Called(key, payload)
	return args.Error(0)
}

func (q *MockQueue) PopEvent(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	args := q.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
