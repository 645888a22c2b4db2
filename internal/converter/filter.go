// Package converter streams Montyformat games into filtered, bounded-RAM
// shuffled Starway records plus a batch-offsets sidecar.
package converter

import (
	"fmt"
	"io"

	"github.com/oliverans/starway/internal/chess"
)

// Filter-bound constants, grounded on the original converter's data_filter.
const (
	MinFullmoveCounter = 9
	MaxHalfmoveClock   = 89
	MaxLegalMoves      = 64
	MaxScoreCentipawns = 8000
)

// Filter tracks per-reason rejection counters; any triggered reason skips the
// position but never aborts the run.
type Filter struct {
	InsufficientMaterial int
	BadFullmoveCounter   int
	BadHalfmoveClock     int
	TooManyMoves         int
	ExtremeScore         int
	BestMoveZeroVisits   int
}

// ShouldSkip reports whether the position should be dropped, incrementing the
// matching counter(s). Multiple reasons may apply to the same position; all
// matching counters are incremented.
func (f *Filter) ShouldSkip(pos *chess.Position, legalMoveCount int, stmScoreCP int16, bestMoveVisits uint8) bool {
	skip := false

	occ := pos.Occupancy()
	numPieces := occ.Count()
	numMinors := (pos.PieceBB(chess.Knight) | pos.PieceBB(chess.Bishop)).Count()
	wMinors := pos.ColorPieceBB(chess.White, chess.Knight).Count() + pos.ColorPieceBB(chess.White, chess.Bishop).Count()
	bMinors := pos.ColorPieceBB(chess.Black, chess.Knight).Count() + pos.ColorPieceBB(chess.Black, chess.Bishop).Count()
	if numPieces <= 2 ||
		(numPieces == 3 && numMinors == 1) ||
		(numPieces == 4 && wMinors == 1 && bMinors == 1) {
		f.InsufficientMaterial++
		skip = true
	}
	if pos.FullmoveNumber < MinFullmoveCounter {
		f.BadFullmoveCounter++
		skip = true
	}
	if pos.HalfmoveClock > MaxHalfmoveClock {
		f.BadHalfmoveClock++
		skip = true
	}
	if legalMoveCount > MaxLegalMoves {
		f.TooManyMoves++
		skip = true
	}
	cp := int(stmScoreCP)
	if cp < 0 {
		cp = -cp
	}
	if cp > MaxScoreCentipawns {
		f.ExtremeScore++
		skip = true
	}
	if bestMoveVisits == 0 {
		f.BestMoveZeroVisits++
		skip = true
	}
	return skip
}

// PrintCounts writes the per-reason totals to w, in the converter's final
// progress-summary style.
func (f *Filter) PrintCounts(w io.Writer) {
	fmt.Fprintf(w, "insufficient material: %d\n", f.InsufficientMaterial)
	fmt.Fprintf(w, "fullmove counter too low: %d\n", f.BadFullmoveCounter)
	fmt.Fprintf(w, "halfmove clock too high: %d\n", f.BadHalfmoveClock)
	fmt.Fprintf(w, "too many legal moves: %d\n", f.TooManyMoves)
	fmt.Fprintf(w, "extreme score: %d\n", f.ExtremeScore)
	fmt.Fprintf(w, "best move had zero visits: %d\n", f.BestMoveZeroVisits)
}

// Total returns the sum of all rejection counters.
func (f *Filter) Total() int {
	return f.InsufficientMaterial + f.BadFullmoveCounter + f.BadHalfmoveClock +
		f.TooManyMoves + f.ExtremeScore + f.BestMoveZeroVisits
}
