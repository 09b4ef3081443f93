package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clientCreated(tenantID uuid.UUID) shared.DomainEvent {
	return shared.NewEntityChangedEvent("Client", shared.ActionCreated, uuid.New(), tenantID, "Cliente criado")
}

// testHandler records the events it receives
type testHandler struct {
	eventTypes []string
	err        error
	panicMsg   string
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

type recordingObserver struct {
	types  []string
	errors []error
}

func (o *recordingObserver) ObserveDispatch(_ context.Context, eventType string, err error) {
	o.types = append(o.types, eventType)
	o.errors = append(o.errors, err)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	typed := newTestHandler("Client.created")
	other := newTestHandler("Project.created")
	bus.Subscribe(typed)
	bus.Subscribe(other)

	event := clientCreated(uuid.New())
	require.NoError(t, bus.Publish(context.Background(), event, clientCreated(uuid.New())))

	assert.Equal(t, 2, typed.count())
	assert.Same(t, event, typed.handled[0])
	assert.Equal(t, 0, other.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("Project.created")
	bus.Subscribe(h, "Client.created")

	_ = bus.Publish(context.Background(), clientCreated(uuid.New()))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newTestHandler()
	bus.Subscribe(all)

	_ = bus.Publish(context.Background(),
		clientCreated(uuid.New()),
		shared.NewEntityChangedEvent("Vendor", shared.ActionDeleted, uuid.New(), uuid.New(), ""))

	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailuresDoNotStopDispatch(t *testing.T) {
	observer := &recordingObserver{}
	bus := NewInMemoryEventBus(zap.NewNop(), WithDispatchObserver(observer))
	failing := newTestHandler("Client.created")
	failing.err = errors.New("db down")
	panicking := newTestHandler("Client.created")
	panicking.panicMsg = "nil map"
	healthy := newTestHandler("Client.created")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), clientCreated(uuid.New()))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, []string{"Client.created", "Client.created", "Client.created"}, observer.types)
	assert.EqualError(t, observer.errors[0], "db down")
	assert.EqualError(t, observer.errors[1], "handler panicked: nil map")
	assert.NoError(t, observer.errors[2])
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	typed := newTestHandler("Client.created", "Client.updated")
	all := newTestHandler()
	bus.Subscribe(typed)
	bus.Subscribe(all)

	bus.Unsubscribe(typed)
	bus.Unsubscribe(all)
	_ = bus.Publish(context.Background(), clientCreated(uuid.New()))

	assert.Equal(t, 0, typed.count())
	assert.Equal(t, 0, all.count())
	assert.Empty(t, bus.handlers)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
