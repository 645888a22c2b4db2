package chess_test

import (
	"testing"

	"github.com/oliverans/starway/internal/chess"
)

func TestPerftInitialPosition(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		if got := chess.Perft(pos, c.depth); got != c.want {
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		if got := chess.Perft(pos, c.depth); got != c.want {
			div := chess.PerftDivide(pos, c.depth)
			t.Logf("diagnostic: %d root moves at depth %d", len(div), c.depth)
			for m, n := range div {
				t.Logf("  %s: %d", m, n)
			}
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftEnPassantPin(t *testing.T) {
	// Black to move; the en-passant capture on d3 would expose the black king
	// on a4 to the white rook on h4 along the fourth rank, so it must be excluded.
	fen := "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1"
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	moves := pos.GenerateLegalMoves(make([]chess.Move, 0, chess.MaxMoves))
	for _, m := range moves {
		if m.IsEnPassant() {
			t.Fatalf("en-passant capture %s should be illegal: it exposes the king on the pin ray", m)
		}
	}
}

func TestPerftPosition3(t *testing.T) {
	fen := "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
	}
	for _, c := range cases {
		if got := chess.Perft(pos, c.depth); got != c.want {
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftPosition5(t *testing.T) {
	fen := "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 44},
		{2, 1486},
	}
	for _, c := range cases {
		if got := chess.Perft(pos, c.depth); got != c.want {
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}
