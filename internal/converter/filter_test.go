package converter_test

import (
	"testing"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/converter"
)

func TestFilterRejectsInsufficientMaterial(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 20")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	var f converter.Filter
	if !f.ShouldSkip(pos, 1, 0, 10) {
		t.Fatalf("expected bare-kings position to be skipped")
	}
	if f.InsufficientMaterial != 1 {
		t.Fatalf("InsufficientMaterial counter: got %d want 1", f.InsufficientMaterial)
	}
}

func TestFilterAcceptsOrdinaryPosition(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.FullmoveNumber = 12
	var f converter.Filter
	if f.ShouldSkip(pos, 20, 30, 10) {
		t.Fatalf("expected a normal mid-game-ish position to pass the filter")
	}
	if f.Total() != 0 {
		t.Fatalf("Total(): got %d want 0", f.Total())
	}
}

func TestFilterRejectsExtremeScoreAndZeroVisits(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.FullmoveNumber = 12

	var f converter.Filter
	if !f.ShouldSkip(pos, 20, 9000, 10) {
		t.Fatalf("expected |cp|>8000 to be rejected")
	}
	if f.ExtremeScore != 1 {
		t.Fatalf("ExtremeScore: got %d want 1", f.ExtremeScore)
	}

	var f2 converter.Filter
	if !f2.ShouldSkip(pos, 20, 30, 0) {
		t.Fatalf("expected zero-visit best move to be rejected")
	}
	if f2.BestMoveZeroVisits != 1 {
		t.Fatalf("BestMoveZeroVisits: got %d want 1", f2.BestMoveZeroVisits)
	}
}
