package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTenants struct {
	ids []uuid.UUID
	err error
}

func (p *staticTenants) GetAllActiveTenantIDs(context.Context) ([]uuid.UUID, error) {
	return p.ids, p.err
}

type fakeMarker struct {
	mu      sync.Mutex
	updated map[uuid.UUID]int64
	fail    map[uuid.UUID]error
	calls   []uuid.UUID
	block   chan struct{}
}

func (m *fakeMarker) MarkOverdue(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, tenantID)
	if err := m.fail[tenantID]; err != nil {
		return 0, err
	}
	return m.updated[tenantID], nil
}

func (m *fakeMarker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestNewOverdueSweeper_Validation(t *testing.T) {
	_, err := NewOverdueSweeper(SweepConfig{}, &staticTenants{}, &fakeMarker{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewOverdueSweeper(SweepConfig{Interval: time.Minute}, &staticTenants{}, &fakeMarker{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.config.TenantTimeout)
}

func TestOverdueSweeper_Sweep(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	marker := &fakeMarker{
		updated: map[uuid.UUID]int64{a: 3, c: 2},
		fail:    map[uuid.UUID]error{b: errors.New("connection reset")},
	}
	s, err := NewOverdueSweeper(DefaultSweepConfig(), &staticTenants{ids: []uuid.UUID{a, b, c}}, marker, zap.NewNop())
	require.NoError(t, err)

	result, err := s.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Tenants)
	assert.Equal(t, int64(5), result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []uuid.UUID{a, b, c}, marker.calls)
	assert.Equal(t, result, s.LastResult())
}

func TestOverdueSweeper_TenantListFailure(t *testing.T) {
	s, err := NewOverdueSweeper(DefaultSweepConfig(), &staticTenants{err: errors.New("db down")}, &fakeMarker{}, zap.NewNop())
	require.NoError(t, err)

	_, err = s.Sweep(context.Background())

	assert.ErrorContains(t, err, "list active tenants: db down")
}

func TestOverdueSweeper_RejectsConcurrentSweep(t *testing.T) {
	marker := &fakeMarker{block: make(chan struct{})}
	s, err := NewOverdueSweeper(DefaultSweepConfig(), &staticTenants{ids: []uuid.UUID{uuid.New()}}, marker, zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = s.Sweep(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return s.sweeping.Load() }, time.Second, 5*time.Millisecond)

	_, err = s.Sweep(context.Background())
	assert.ErrorIs(t, err, ErrSweepInProgress)

	close(marker.block)
	<-done
}

func TestOverdueSweeper_StartRunsImmediately(t *testing.T) {
	marker := &fakeMarker{}
	cfg := SweepConfig{Interval: time.Hour, RunOnStart: true}
	s, err := NewOverdueSweeper(cfg, &staticTenants{ids: []uuid.UUID{uuid.New()}}, marker, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return marker.callCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestCompanyTenantProvider(t *testing.T) {
	ctx := context.Background()
	first, second := identity.Company{Active: true}, identity.Company{Active: true}
	first.ID, second.ID = uuid.New(), uuid.New()
	repo := new(testutil.MockCompanyRepository)
	repo.On("FindAllActive", ctx).Return([]identity.Company{first, second}, nil)

	ids, err := NewCompanyTenantProvider(repo).GetAllActiveTenantIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, ids)
}
