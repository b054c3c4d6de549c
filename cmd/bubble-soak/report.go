package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/superbubble/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Sessions int
	Seed     uint64

	// Results
	TotalFrames    int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Games          int64
	Chains         int64
	BestScore      uint32
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Add folds one world's tally and scheduler stats into the report. System
// stats are merged by position since every world registers the same systems.
func (r *Report) Add(tally Tally, stats *ecs.SchedulerStats) {
	r.TotalFrames += tally.Frames
	r.Games += tally.Games
	r.Chains += tally.Chains
	r.BestScore = max(r.BestScore, tally.BestScore)

	if r.Systems == nil {
		r.Systems = append([]ecs.SystemStats(nil), stats.Systems...)
		return
	}
	for i, s := range stats.Systems {
		if i >= len(r.Systems) {
			break
		}
		merged := &r.Systems[i]
		merged.ExecutionCount += s.ExecutionCount
		merged.TotalDuration += s.TotalDuration
		merged.MinDuration = min(merged.MinDuration, s.MinDuration)
		merged.MaxDuration = max(merged.MaxDuration, s.MaxDuration)
		if merged.ExecutionCount > 0 {
			merged.AvgDuration = merged.TotalDuration / time.Duration(merged.ExecutionCount)
		}
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Bubble Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Sessions:** {{.Sessions}}
- **Seed:** {{.Seed}}

## Gameplay
- **Frames:** {{.TotalFrames}}
- **Games Finished:** {{.Games}}
- **Chains:** {{.Chains}}
- **Best Score:** {{.BestScore}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Update Time (all sessions, one frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
