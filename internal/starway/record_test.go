package starway_test

import (
	"bytes"
	"testing"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/starway"
)

func TestRecordSizeIsExactly32Bytes(t *testing.T) {
	var r starway.Record
	buf := r.Encode()
	if len(buf) != 32 {
		t.Fatalf("record size: got %d want 32", len(buf))
	}
}

func TestRecordRoundTrip(t *testing.T) {
	r := starway.Record{
		STM:               chess.Black,
		InCheck:           true,
		OurKingOriented:   chess.Square(4),
		TheirKingOriented: chess.Square(60),
		CastlingKS:        true,
		CastlingQS:        false,
		EPFile:            3,
		Result:            2,
		Occupied:          (1 << 4) | (1 << 60),
		StmScore:          -150,
		BestMove:          chess.NewMove(chess.Square(4), chess.Square(5), chess.FlagQuiet),
	}
	starway.PushNibble(&r.PiecesLo, &r.PiecesHi, 0, 0b101_0) // color 0, piece type 5 (king)
	starway.PushNibble(&r.PiecesLo, &r.PiecesHi, 1, 0b101_1) // color 1, piece type 5 (king)

	buf := r.Encode()
	got := starway.Decode(buf)

	if got.STM != r.STM || got.InCheck != r.InCheck || got.OurKingOriented != r.OurKingOriented ||
		got.TheirKingOriented != r.TheirKingOriented || got.CastlingKS != r.CastlingKS ||
		got.CastlingQS != r.CastlingQS || got.EPFile != r.EPFile || got.Result != r.Result {
		t.Fatalf("misc round-trip mismatch: got %+v want %+v", got, r)
	}
	if got.Occupied != r.Occupied || got.PiecesLo != r.PiecesLo || got.PiecesHi != r.PiecesHi {
		t.Fatalf("piece-stream round-trip mismatch: got %+v want %+v", got, r)
	}
	if got.StmScore != r.StmScore || got.BestMove != r.BestMove {
		t.Fatalf("score/move round-trip mismatch: got %+v want %+v", got, r)
	}
}

func TestRecordWriteReadFrom(t *testing.T) {
	r := starway.Record{
		STM:               chess.White,
		OurKingOriented:   chess.Square(4),
		TheirKingOriented: chess.Square(60),
		EPFile:            8,
		Occupied:          (1 << 4) | (1 << 60) | (1 << 12),
		BestMove:          chess.NewMove(chess.Square(12), chess.Square(20), chess.FlagQuiet),
	}

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got, err := starway.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if got.Occupied != r.Occupied || got.BestMove != r.BestMove {
		t.Fatalf("got %+v want %+v", got, r)
	}
}

func TestPushPopNibbleOrder(t *testing.T) {
	var lo, hi uint64
	values := []uint8{0x1, 0xF, 0x3, 0xA}
	for i, v := range values {
		starway.PushNibble(&lo, &hi, i, v)
	}
	for i, v := range values {
		if got := starway.PopNibble(lo, hi, i); got != v {
			t.Fatalf("nibble %d: got %x want %x", i, got, v)
		}
	}
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	r := starway.Record{EPFile: 9}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for ep_file out of range")
	}

	r2 := starway.Record{EPFile: 8, Occupied: 1 << 4, OurKingOriented: 4, TheirKingOriented: 4, BestMove: chess.NewMove(0, 1, chess.FlagQuiet)}
	if err := r2.Validate(); err == nil {
		t.Fatalf("expected error for popcount(occupied) == 1")
	}
}
