package harness

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/i8080/pkg/result"
)

// WorkerPool runs programs in parallel, one independent machine per task.
type WorkerPool struct {
	NumWorkers int
	MaxSteps   uint64
	Results    *result.Table
	steps      atomic.Int64
	faults     atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int, maxSteps uint64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		MaxSteps:   maxSteps,
		Results:    result.NewTable(),
	}
}

// Task is one program image to run on the bench.
type Task struct {
	Name  string
	Image []byte
}

// Stats returns the total instructions executed and faults hit.
func (wp *WorkerPool) Stats() (steps, faults int64) {
	return wp.steps.Load(), wp.faults.Load()
}

// RunTasks distributes tasks across workers.
func (wp *WorkerPool) RunTasks(tasks []Task, verbose bool) {
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				wp.processTask(task, verbose)
			}
		}()
	}
	wg.Wait()
}

// processTask runs a single program to completion on a fresh bench.
func (wp *WorkerPool) processTask(task Task, verbose bool) {
	bench, err := NewBench(task.Image)
	if err != nil {
		wp.faults.Add(1)
		wp.Results.Add(result.Report{Program: task.Name, Output: err.Error()})
		return
	}

	rep := bench.Run(task.Name, wp.MaxSteps)
	wp.steps.Add(int64(rep.Steps))
	if rep.Fault != nil {
		wp.faults.Add(1)
	}
	wp.Results.Add(rep)

	if verbose {
		switch {
		case rep.Fault != nil:
			fmt.Printf("  FAULT: %s: %s at %04X after %d steps\n",
				task.Name, rep.Fault.Mnemonic, rep.Fault.PC, rep.Steps)
		case !rep.Finished:
			fmt.Printf("  LIMIT: %s: stopped after %d steps\n", task.Name, rep.Steps)
		default:
			fmt.Printf("  DONE:  %s: %d steps\n", task.Name, rep.Steps)
		}
	}
}
