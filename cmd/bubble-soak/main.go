// Command bubble-soak plays many sessions with random input as fast as it
// can and reports throughput, gameplay totals and per-system timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/superbubble/game"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	sessions := flag.Int("sessions", 16, "The number of independent sessions to play.")
	seed := flag.Uint64("seed", 1, "Seed of the first session; session i uses seed+i.")
	configPath := flag.String("config", "", "TOML file overriding the default game tunables.")
	pressChance := flag.Float64("press", 0.2, "Per-frame probability of a random intent.")
	dump := flag.String("dump", "", "Write the first session's final snapshot (msgpack) to this file.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *sessions < 1 {
		log.Fatalf("Need at least one session, got %d", *sessions)
	}

	log.Printf("Creating %d sessions...\n", *sessions)
	worlds := make([]*soakWorld, *sessions)
	for i := range worlds {
		c := cfg
		c.Seed = *seed + uint64(i)
		worlds[i] = newSoakWorld(c, *pressChance)
	}

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessions,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running soak for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	soak(ctx, worlds, &report.UpdateTime)
	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	for _, w := range worlds {
		report.Add(*w.tally.Get(), w.scheduler.GetStats())
	}
	log.Println("Soak finished.")

	if *dump != "" {
		if err := dumpSnapshot(*dump, worlds[0]); err != nil {
			log.Fatalf("Failed to dump snapshot: %v", err)
		}
		log.Printf("Wrote snapshot to %s\n", *dump)
	}

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// soak steps every world once per iteration until ctx is done, sampling the
// time each iteration takes.
func soak(ctx context.Context, worlds []*soakWorld, stats *Stats) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			start := time.Now()
			for _, w := range worlds {
				w.step()
			}
			stats.Samples = append(stats.Samples, time.Since(start))
		}
	}
}

func dumpSnapshot(path string, w *soakWorld) error {
	data, err := game.EncodeSnapshot(w.session.Get().Snapshot())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
