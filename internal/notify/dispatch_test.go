package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueued_PushesEncodedEvent(t *testing.T) {
	q := new(MockQueue)
	fallback := new(MockDispatcher)
	ev := notify.NewEvent(notify.JobSlipCreated, 12, 1)

	var pushed []byte
	q.On("PushEvent", "notify:events", mock.Anything).
		Run(func(args mock.Arguments) { pushed = args.Get(1).([]byte) }).
		Return(nil)

	notify.NewQueued(q, "notify:events", fallback).Dispatch(context.Background(), ev)

	var got notify.Event
	require.NoError(t, json.Unmarshal(pushed, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, uint(12), got.EntityID)
	fallback.AssertNotCalled(t, "Dispatch", mock.Anything)
}

func TestQueued_FallsBackWhenPushFails(t *testing.T) {
	q := new(MockQueue)
	fallback := new(MockDispatcher)
	ev := notify.NewEvent(notify.JanitorialCreated, 3, 1)

	q.On("PushEvent", "notify:events", mock.Anything).Return(errors.New("connection refused"))
	fallback.On("Dispatch", ev).Return()

	notify.NewQueued(q, "notify:events", fallback).Dispatch(context.Background(), ev)

	fallback.AssertCalled(t, "Dispatch", ev)
}

func TestInline_IgnoresRequestCancellation(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.Anything).Return(nil)
	svc := notify.NewService(s, m, nil, "")
	slip := createSlip(t, s, "3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	notify.NewInline(svc).Dispatch(ctx, notify.NewEvent(notify.JobSlipCreated, slip.ID, storagetest.AdminID))

	assert.Len(t, notificationsFor(t, s), 3)
}

func TestWorker_ProcessesQueuedEvents(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.Anything).Return(nil)
	svc := notify.NewService(s, m, nil, "")
	slip := createSlip(t, s, "3,7")

	payload, err := json.Marshal(notify.NewEvent(notify.JobSlipCreated, slip.ID, storagetest.AdminID))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := new(MockQueue)
	q.On("PopEvent", "notify:events").Return([]byte("not json"), nil).Once()
	q.On("PopEvent", "notify:events").Return(payload, nil).Once()
	q.On("PopEvent", "notify:events").Run(func(mock.Arguments) { cancel() }).Return(nil, nil)

	w := notify.NewWorker(q, "notify:events", svc)
	w.PollTimeout = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, notificationsFor(t, s), 4)
}
