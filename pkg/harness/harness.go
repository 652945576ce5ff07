// Package harness runs CP/M diagnostic programs against the 8080 core.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oisee/i8080/pkg/result"
)

// DefaultMaxSteps bounds a run when Config.MaxSteps is zero.
const DefaultMaxSteps = 10_000_000_000

// Config holds harness configuration.
type Config struct {
	NumWorkers int    // Number of parallel machines (defaults to NumCPU)
	MaxSteps   uint64 // Instruction limit per program (defaults to DefaultMaxSteps)
	Verbose    bool   // Print progress
}

// Run executes every task and returns the collected reports.
func Run(cfg Config, tasks []Task) *result.Table {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	pool := NewWorkerPool(cfg.NumWorkers, cfg.MaxSteps)
	startTime := time.Now()

	if cfg.Verbose {
		fmt.Printf("=== Running %d programs on %d workers ===\n", len(tasks), cfg.NumWorkers)
	}

	pool.RunTasks(tasks, cfg.Verbose)

	if cfg.Verbose {
		steps, faults := pool.Stats()
		elapsed := time.Since(startTime)
		fmt.Printf("  Steps: %d, Faults: %d, Elapsed: %s\n", steps, faults, elapsed.Round(time.Millisecond))
	}

	return pool.Results
}

// LoadTasks reads program images from disk, named by their base name.
func LoadTasks(paths []string) ([]Task, error) {
	tasks := make([]Task, 0, len(paths))
	for _, p := range paths {
		image, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		tasks = append(tasks, Task{Name: filepath.Base(p), Image: image})
	}
	return tasks, nil
}
