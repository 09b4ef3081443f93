package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMeasurement(t *testing.T) *Measurement {
	t.Helper()
	m, err := NewMeasurement(uuid.New(), uuid.New(), MeasurementDetails{
		Description:     "Fundação - medição 1",
		ExecutedPercent: dec(30),
		Amount:          dec(15000),
		MeasuredAt:      day(2024, 5, 10),
	})
	require.NoError(t, err)
	return m
}

func TestNewMeasurement(t *testing.T) {
	m := newTestMeasurement(t)
	assert.Equal(t, MeasurementStatusPending, m.Status)
	assert.Nil(t, m.EntryID)

	_, err := NewMeasurement(uuid.New(), uuid.New(), MeasurementDetails{Description: "", MeasuredAt: time.Now()})
	assert.Error(t, err)

	_, err = NewMeasurement(uuid.New(), uuid.New(), MeasurementDetails{Description: "x", ExecutedPercent: dec(120), MeasuredAt: time.Now()})
	assert.Error(t, err)
}

func TestMeasurement_Lifecycle(t *testing.T) {
	now := day(2024, 5, 20)
	m := newTestMeasurement(t)

	require.NoError(t, m.Approve(now))
	assert.Equal(t, MeasurementStatusApproved, m.Status)
	assert.Error(t, m.Approve(now), "approving twice fails")

	entryID := uuid.New()
	require.NoError(t, m.MarkPaid(entryID, now))
	assert.True(t, m.IsPaid())
	assert.Equal(t, entryID, *m.EntryID)

	err := m.MarkPaid(uuid.New(), now)
	assert.Error(t, err)
	assert.Equal(t, entryID, *m.EntryID, "entry reference unchanged")

	assert.Error(t, m.Update(MeasurementDetails{Description: "x", MeasuredAt: now}))
}

func TestMeasurement_DaysPending(t *testing.T) {
	m := newTestMeasurement(t)
	assert.Equal(t, 16, m.DaysPending(time.Date(2024, 5, 26, 18, 0, 0, 0, time.UTC)))
}
