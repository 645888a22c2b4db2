package dataloader

import (
	"testing"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/starway"
)

// buildStartposRecord encodes the initial position, side to move White, as a
// Starway record with a single legal best move (e2-e4).
func buildStartposRecord(t *testing.T) starway.Record {
	t.Helper()
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	var rec starway.Record
	rec.STM = chess.White
	rec.OurKingOriented = pos.King(chess.White)
	rec.TheirKingOriented = pos.King(chess.Black)
	rec.CastlingKS = true
	rec.CastlingQS = true
	rec.EPFile = 8
	rec.Result = 2
	rec.StmScore = 20
	rec.BestMove = chess.NewMove(chess.Square(12), chess.Square(28), chess.FlagDoublePush)

	var occupied uint64
	idx := 0
	for sq := chess.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p == chess.NoPiece {
			continue
		}
		occupied |= 1 << uint(sq)
		nibble := uint8(0) // White pieces are "ours" (color bit 0) from White's own perspective
		if p.Color() == chess.Black {
			nibble = 1
		}
		nibble |= uint8(p.Type()-1) << 1
		starway.PushNibble(&rec.PiecesLo, &rec.PiecesHi, idx, nibble)
		idx++
	}
	rec.Occupied = occupied
	return rec
}

func TestDecodeEntryReconstructsStartpos(t *testing.T) {
	rec := buildStartposRecord(t)
	batch := NewBatch(1)

	if err := decodeEntry(rec, batch, 0); err != nil {
		t.Fatalf("decodeEntry: %v", err)
	}

	if batch.LegalMoveIdxs[0] < 0 {
		t.Fatalf("expected at least one legal move mapped")
	}
	nonPadded := 0
	for i := 0; i < MaxMovesPerPos; i++ {
		if batch.LegalMoveIdxs[i] >= 0 {
			nonPadded++
		}
	}
	if nonPadded != 20 {
		t.Fatalf("legal move count: got %d want 20", nonPadded)
	}
	if batch.BestMoveIdx[0] < 0 || batch.BestMoveIdx[0] >= int16(nonPadded) {
		t.Fatalf("best_move_idx out of range: %d", batch.BestMoveIdx[0])
	}

	nonPaddedFeatures := 0
	for i := 0; i < MaxPiecesPerPos; i++ {
		if batch.ActiveFeaturesStm[i] >= 0 {
			nonPaddedFeatures++
		}
	}
	if nonPaddedFeatures != 32 {
		t.Fatalf("active feature count: got %d want 32", nonPaddedFeatures)
	}
}
