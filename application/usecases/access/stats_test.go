package access

import (
	"testing"

	"facegate.io/application/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounterRepository struct {
	counts []int64
	calls  int
	err    error
}

func (f *fakeCounterRepository) CountDocs(filter map[string]interface{}) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := f.counts[f.calls%len(f.counts)]
	f.calls++
	return count, nil
}

func TestSnapshotDerivesDeniedFromTotals(t *testing.T) {
	service := NewStatsService(
		&fakeCounterRepository{counts: []int64{12}},
		&fakeCounterRepository{counts: []int64{30}},
		&fakeCounterRepository{counts: []int64{20, 14}},
		&fakeCounterRepository{counts: []int64{3}},
		&config.Settings{AcceptanceThreshold: 0.95, LivenessThreshold: 0.7, SpoofProbabilityThreshold: 0.8},
	)

	snapshot, err := service.Snapshot()
	require.NoError(t, err)
	assert.EqualValues(t, 12, snapshot.ActiveUsers)
	assert.EqualValues(t, 30, snapshot.Templates)
	assert.EqualValues(t, 20, snapshot.EventsToday)
	assert.EqualValues(t, 14, snapshot.PermittedToday)
	assert.EqualValues(t, 6, snapshot.DeniedToday)
	assert.EqualValues(t, 3, snapshot.OpenAlerts)
	assert.InDelta(t, 0.95, snapshot.Thresholds.Acceptance, 1e-9)
}

func TestSnapshotStoreFailureIsFatal(t *testing.T) {
	service := NewStatsService(
		&fakeCounterRepository{err: assert.AnError},
		&fakeCounterRepository{counts: []int64{0}},
		&fakeCounterRepository{counts: []int64{0}},
		&fakeCounterRepository{counts: []int64{0}},
		&config.Settings{},
	)

	_, err := service.Snapshot()
	assert.Error(t, err)
}
