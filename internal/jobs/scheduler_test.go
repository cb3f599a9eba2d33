package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	calls int
	err   error
}

func (f *fakePruner) PruneHistory(context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestScheduler_StartRegistersPrune(t *testing.T) {
	p := &fakePruner{}
	s := NewScheduler(p, time.UTC)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, 1, s.Entries())
}

func TestPruneSpec_RunsAtThreeAM(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	sched, err := cron.ParseStandard(PruneSpec)
	require.NoError(t, err)

	next := sched.Next(time.Date(2026, 6, 1, 12, 0, 0, 0, loc))
	want := time.Date(2026, 6, 2, 3, 0, 0, 0, loc)
	assert.True(t, want.Equal(next), "next run %s", next)
}

func TestScheduler_PruneHistoryHandlesErrors(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	s := NewScheduler(p, nil)

	assert.NotPanics(t, func() { s.pruneHistory(context.Background()) })
	assert.Equal(t, 1, p.calls)
}
