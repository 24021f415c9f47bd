package parallel

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

func TestWorkerPoolNonPositiveWorkers(t *testing.T) {
	for _, workers := range []int{0, -5} {
		pool, err := NewWorkerPool(workers)
		if err != nil {
			t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
		}
		if pool.Workers() != 1 {
			t.Errorf("Expected 1 worker for %d, got %d", workers, pool.Workers())
		}
		pool.Close()
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool, _ := NewWorkerPool(10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace closes the pool while tasks are still being submitted
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool, _ := NewWorkerPool(4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, _ := NewWorkerPool(4)
	pool.Close()
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	var panics, counter int64
	pool, _ := newWorkerPool(4, func(any) { atomic.AddInt64(&panics, 1) })

	for i := 0; i < 5; i++ {
		pool.Submit(func() { panic("intentional panic") })
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&counter, 1) })
	}
	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}
	if panics != 5 {
		t.Errorf("Expected 5 recovered panics, got %d", panics)
	}
}

func TestRunVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		out := make([]int, 40)
		err := Run(workers, len(out), func(i int) error {
			out[i] = i * i
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error %v", workers, err)
		}
		for i, v := range out {
			if v != i*i {
				t.Fatalf("workers=%d: index %d holds %d", workers, i, v)
			}
		}
	}
}

func TestRunReturnsLowestFailingIndex(t *testing.T) {
	errLow := errors.New("low")
	errHigh := errors.New("high")

	for _, workers := range []int{1, 8} {
		var ran int64
		err := Run(workers, 30, func(i int) error {
			atomic.AddInt64(&ran, 1)
			switch i {
			case 7:
				// finish after the higher index has failed
				time.Sleep(5 * time.Millisecond)
				return errLow
			case 20:
				return errHigh
			}
			return nil
		})
		if !errors.Is(err, errLow) {
			t.Errorf("workers=%d: expected error of index 7, got %v", workers, err)
		}
		if ran != 30 {
			t.Errorf("workers=%d: expected all 30 jobs to run, got %d", workers, ran)
		}
	}
}

func TestRunConvertsPanics(t *testing.T) {
	for _, workers := range []int{1, 4} {
		err := Run(workers, 10, func(i int) error {
			if i == 3 {
				panic("boom")
			}
			return nil
		})
		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("workers=%d: expected *PanicError, got %v", workers, err)
		}
		if pe.Index != 3 || pe.Value != "boom" {
			t.Errorf("workers=%d: unexpected panic error %+v", workers, pe)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	if err := Run(4, 0, func(int) error { return errors.New("never") }); err != nil {
		t.Errorf("expected nil for no jobs, got %v", err)
	}
}

func BenchmarkRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Run(8, 256, func(j int) error {
			sum := 0
			for k := 0; k < 100; k++ {
				sum += k * j
			}
			return nil
		})
	}
}
