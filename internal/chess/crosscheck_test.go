package chess_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"github.com/oliverans/starway/internal/chess"
)

// oracleNodes runs perft against dragontoothmg, an independent third-party
// move generator, as a cross-check oracle — never used in production code.
func oracleNodes(b dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		nodes += oracleNodes(b, depth-1)
		unapply()
	}
	return nodes
}

func TestCrossCheckAgainstDragontoothmg(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		oracleBoard := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 2; depth++ {
			ours := chess.Perft(pos, depth)
			theirs := oracleNodes(oracleBoard, depth)
			if ours != theirs {
				t.Fatalf("fen %q depth %d: ours=%d dragontoothmg=%d", fen, depth, ours, theirs)
			}
		}
	}
}
