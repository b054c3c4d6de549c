package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type registeredSystem struct {
	system  System
	queries []refresher

	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs registered systems in order, once per frame.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register appends system to the frame and initialises its Query and
// Singleton fields against the scheduler's storage.
func (s *Scheduler) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systems = append(s.systems, &registeredSystem{
		system:      system,
		queries:     s.initializeFields(system),
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (s *Scheduler) initializeFields(system System) []refresher {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	var queries []refresher
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + value.Type().Field(i).Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if q, ok := field.Addr().Interface().(refresher); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

// Once runs every system once with dt seconds of elapsed time, then flushes
// the frame's deferred commands.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.storage)

	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}

		start := time.Now()
		rs.system.Execute(frame)
		duration := time.Since(start)

		rs.executionCount++
		rs.lastDuration = duration
		rs.totalDuration += duration
		rs.minDuration = min(rs.minDuration, duration)
		rs.maxDuration = max(rs.maxDuration, duration)
	}

	frame.Commands.Flush(s.storage)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		var avg time.Duration
		if rs.executionCount > 0 {
			avg = rs.totalDuration / time.Duration(rs.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           rs.name,
			ExecutionCount: rs.executionCount,
			MinDuration:    rs.minDuration,
			MaxDuration:    rs.maxDuration,
			AvgDuration:    avg,
			LastDuration:   rs.lastDuration,
			TotalDuration:  rs.totalDuration,
		}
		stats.TotalExecutions += rs.executionCount
	}

	return stats
}
