package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/superbubble/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)

	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
}

func TestReportAdd(t *testing.T) {
	var r Report
	r.Add(Tally{Frames: 10, Games: 1, Chains: 4, BestScore: 300}, &ecs.SchedulerStats{
		Systems: []ecs.SystemStats{{Name: "MonkeySystem", ExecutionCount: 10, TotalDuration: 10 * time.Microsecond, MinDuration: time.Microsecond, MaxDuration: time.Microsecond}},
	})
	r.Add(Tally{Frames: 10, Games: 2, Chains: 1, BestScore: 200}, &ecs.SchedulerStats{
		Systems: []ecs.SystemStats{{Name: "MonkeySystem", ExecutionCount: 10, TotalDuration: 30 * time.Microsecond, MinDuration: 2 * time.Microsecond, MaxDuration: 5 * time.Microsecond}},
	})

	assert.Equal(t, int64(20), r.TotalFrames)
	assert.Equal(t, int64(3), r.Games)
	assert.Equal(t, int64(5), r.Chains)
	assert.Equal(t, uint32(300), r.BestScore)

	require.Len(t, r.Systems, 1)
	sys := r.Systems[0]
	assert.Equal(t, int64(20), sys.ExecutionCount)
	assert.Equal(t, 2*time.Microsecond, sys.AvgDuration)
	assert.Equal(t, time.Microsecond, sys.MinDuration)
	assert.Equal(t, 5*time.Microsecond, sys.MaxDuration)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:  time.Second,
		Sessions:  4,
		Seed:      9,
		Games:     3,
		BestScore: 1500,
		Systems:   []ecs.SystemStats{{Name: "SessionSystem", ExecutionCount: 60}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Sessions:** 4")
	assert.Contains(t, out, "**Games Finished:** 3")
	assert.Contains(t, out, "**Best Score:** 1500")
	assert.Contains(t, out, "- SessionSystem: 60 runs")
	assert.NotContains(t, out, "GC Pause")
}
