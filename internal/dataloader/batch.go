// Package dataloader decodes Starway records into tensor-ready batches and
// serves them from a pool of worker goroutines, one file handle each.
package dataloader

import "github.com/oliverans/starway/internal/chess"

// MaxPiecesPerPos bounds the per-record feature-index row (32 occupied
// squares at most, per starway.Record.Occupied's popcount invariant).
const MaxPiecesPerPos = 32

// MaxMovesPerPos bounds the per-record legal-move-index row, matching the
// move generator's MaxMoves ceiling.
const MaxMovesPerPos = chess.MaxMoves

// Batch holds batchSize records' worth of decoded tensors, row-major
// (entryIdx*rowWidth + slot), mirroring the C ABI layout next_batch hands to
// the trainer: flat arrays rather than a slice of per-record structs.
type Batch struct {
	BatchSize int

	// ActiveFeaturesStm/Ntm are [BatchSize*MaxPiecesPerPos]int32, -1 padded.
	ActiveFeaturesStm []int32
	ActiveFeaturesNtm []int32

	StmScores  []int16
	StmResults []float32

	// LegalMoveIdxs is [BatchSize*MaxMovesPerPos]int16, -1 padded.
	LegalMoveIdxs []int16
	BestMoveIdx   []int16
}

// NewBatch allocates a Batch's backing arrays for batchSize records.
func NewBatch(batchSize int) *Batch {
	b := &Batch{
		BatchSize:         batchSize,
		ActiveFeaturesStm: make([]int32, batchSize*MaxPiecesPerPos),
		ActiveFeaturesNtm: make([]int32, batchSize*MaxPiecesPerPos),
		StmScores:         make([]int16, batchSize),
		StmResults:        make([]float32, batchSize),
		LegalMoveIdxs:     make([]int16, batchSize*MaxMovesPerPos),
		BestMoveIdx:       make([]int16, batchSize),
	}
	return b
}
