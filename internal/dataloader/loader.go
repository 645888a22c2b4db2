package dataloader

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/oliverans/starway/internal/starway"
)

// worker owns one open file handle and one Batch; no cross-worker state.
type worker struct {
	file  *os.File
	batch *Batch
}

// Loader serves batches from a pool of workers, barrier style: when the
// consumer has drained numThreads batches, all workers refill concurrently
// and are joined before the next batch is handed out.
type Loader struct {
	offsets   []int64
	batchSize int

	workers            []*worker
	totalBatchesYielded int
}

// Open reads the offsets sidecar into memory, asserts it is non-empty, and
// opens one independent file handle per worker.
func Open(dataPath, offsetsPath string, batchSize, numThreads int) (*Loader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataloader: batch size must be positive")
	}
	if numThreads <= 0 {
		return nil, fmt.Errorf("dataloader: num threads must be positive")
	}

	raw, err := os.ReadFile(offsetsPath)
	if err != nil {
		return nil, fmt.Errorf("dataloader: reading offsets sidecar: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("dataloader: offsets sidecar is empty")
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("dataloader: offsets sidecar size is not a multiple of 8")
	}
	offsets := make([]int64, len(raw)/8)
	for i := range offsets {
		offsets[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
	}

	l := &Loader{offsets: offsets, batchSize: batchSize}
	for t := 0; t < numThreads; t++ {
		f, err := os.Open(dataPath)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("dataloader: opening worker file handle: %w", err)
		}
		l.workers = append(l.workers, &worker{file: f, batch: NewBatch(batchSize)})
	}
	return l, nil
}

// Close releases every worker's file handle.
func (l *Loader) Close() error {
	var first error
	for _, w := range l.workers {
		if w.file == nil {
			continue
		}
		if err := w.file.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NextBatch returns the next batch in round-robin worker order. Every
// numThreads calls, all workers refill their buffer concurrently; the
// intervening calls return already-filled buffers at no I/O cost.
func (l *Loader) NextBatch() (*Batch, error) {
	numThreads := len(l.workers)
	if l.totalBatchesYielded%numThreads == 0 {
		var wg sync.WaitGroup
		errs := make([]error, numThreads)
		for t := 0; t < numThreads; t++ {
			wg.Add(1)
			go func(t int) {
				defer wg.Done()
				errs[t] = l.fillWorkerBatch(t)
			}(t)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	w := l.workers[l.totalBatchesYielded%numThreads]
	l.totalBatchesYielded++
	return w.batch, nil
}

// fillWorkerBatch seeks worker t's file handle to its next target batch and
// decodes batchSize consecutive records in place.
func (l *Loader) fillWorkerBatch(t int) error {
	w := l.workers[t]
	idx := (l.totalBatchesYielded + t) % len(l.offsets)
	if _, err := w.file.Seek(l.offsets[idx], 0); err != nil {
		return fmt.Errorf("dataloader: seeking worker %d: %w", t, err)
	}

	for i := 0; i < l.batchSize; i++ {
		rec, err := starway.ReadFrom(w.file)
		if err != nil {
			return fmt.Errorf("dataloader: worker %d reading record %d: %w", t, i, err)
		}
		if err := decodeEntry(rec, w.batch, i); err != nil {
			return err
		}
	}
	return nil
}
