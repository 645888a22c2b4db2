package converter

import (
	"testing"

	"github.com/oliverans/starway/internal/chess"
)

func TestEncodeOrientsBlackToWhiteFrame(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	move := chess.NewMove(chess.Square(60), chess.Square(59), chess.FlagQuiet) // e8-d8
	rec := encode(pos, 1, 0, move)

	if rec.STM != chess.Black {
		t.Fatalf("stm: got %v want Black", rec.STM)
	}
	// Black's king on e8 (sq 60) rank-flips to e1 (sq 4) in the oriented frame.
	if rec.OurKingOriented != chess.Square(4) {
		t.Fatalf("our_king_oriented: got %d want 4", rec.OurKingOriented)
	}
	// White's king on e1 (sq 4) rank-flips to e8 (sq 60).
	if rec.TheirKingOriented != chess.Square(60) {
		t.Fatalf("their_king_oriented: got %d want 60", rec.TheirKingOriented)
	}
	wantMove := chess.NewMove(chess.Square(4), chess.Square(3), chess.FlagQuiet)
	if rec.BestMove != wantMove {
		t.Fatalf("best_move: got %s want %s", rec.BestMove, wantMove)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeWhiteToMoveIsUnoriented(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	move := chess.NewMove(chess.Square(12), chess.Square(28), chess.FlagDoublePush) // e2-e4
	rec := encode(pos, 2, 35, move)

	if rec.STM != chess.White {
		t.Fatalf("stm: got %v want White", rec.STM)
	}
	if rec.OurKingOriented != chess.Square(4) {
		t.Fatalf("our_king_oriented: got %d want 4", rec.OurKingOriented)
	}
	if rec.BestMove != move {
		t.Fatalf("best_move: got %s want %s (unoriented for White)", rec.BestMove, move)
	}
	if rec.Result != 2 {
		t.Fatalf("result: got %d want 2", rec.Result)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
