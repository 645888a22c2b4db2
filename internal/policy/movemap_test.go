package policy_test

import (
	"testing"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/policy"
)

func TestIndexDistinctForDistinctMoves(t *testing.T) {
	seen := make(map[int]chess.Move)
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := pos.GenerateLegalMoves(make([]chess.Move, 0, chess.MaxMoves))
	if len(moves) != 20 {
		t.Fatalf("startpos legal move count: got %d want 20", len(moves))
	}
	for _, m := range moves {
		idx := policy.Index(m)
		if idx < 0 {
			t.Fatalf("move %s mapped to no policy class", m)
		}
		if other, ok := seen[idx]; ok {
			t.Fatalf("moves %s and %s collide at policy index %d", m, other, idx)
		}
		seen[idx] = m
	}
}

func TestIndexCastlingReservedSlots(t *testing.T) {
	ks := chess.NewMove(chess.Square(4), chess.Square(6), chess.FlagCastleKS)
	qs := chess.NewMove(chess.Square(4), chess.Square(2), chess.FlagCastleQS)

	ksIdx := policy.Index(ks)
	qsIdx := policy.Index(qs)
	if ksIdx < 0 || qsIdx < 0 {
		t.Fatalf("castling moves must map to a valid index: ks=%d qs=%d", ksIdx, qsIdx)
	}
	if ksIdx == qsIdx {
		t.Fatalf("kingside and queenside castling must not share an index")
	}
	if ksIdx < policy.NumClasses-2 || qsIdx < policy.NumClasses-2 {
		t.Fatalf("castling indices should be the last two classes: ks=%d qs=%d numClasses=%d", ksIdx, qsIdx, policy.NumClasses)
	}
}
