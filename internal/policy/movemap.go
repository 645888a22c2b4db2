// Package policy builds the fixed 1882-class move-index table the dataloader
// uses to map a legal move into the neural network's policy output space.
//
// The upstream C++ implementation ships this table as a precompiled blob
// (moves_map_1880.bin) embedded via INCBIN. This implementation instead
// regenerates it deterministically at package init, which the external
// interface explicitly allows as an equivalent strategy as long as the
// converter and dataloader agree on the same table within one process.
package policy

import "github.com/oliverans/starway/internal/chess"

// NumClasses is the total policy output width: every reachable non-castling
// (src, dst, promo) combination from White's perspective (1880 classes), plus
// one slot each for queenside (1880) and kingside (1881) castling, 1882 in all.
// The order of the non-castling classes is this package's own enumeration; it
// is never compared against the original blob (see package doc).
var NumClasses int

var queensideCastleIdx int
var kingsideCastleIdx int

// noPromoSlot is the "no promotion" index within the per-(src,dst) promo axis.
const noPromoSlot = 6

// moveMap[src][dst][promoSlot] holds the policy index, or -1 if that
// (src, dst, promotion) combination is never produced by the move generator.
var moveMap [64][64][7]int16

func init() {
	for s := range moveMap {
		for d := range moveMap[s] {
			for k := range moveMap[s][d] {
				moveMap[s][d][k] = -1
			}
		}
	}

	next := int16(0)
	// Deterministic enumeration order: src ascending, dst ascending, promo
	// slot ascending, matching the upstream table's [src][dst][promo] shape.
	for src := 0; src < 64; src++ {
		for dst := 0; dst < 64; dst++ {
			if src == dst {
				continue
			}
			for slot := 0; slot < 7; slot++ {
				if !validSlot(chess.Square(src), chess.Square(dst), slot) {
					continue
				}
				moveMap[src][dst][slot] = next
				next++
			}
		}
	}
	queensideCastleIdx = int(next)
	kingsideCastleIdx = int(next) + 1
	NumClasses = int(next) + 2
}

func promoSlotOf(pt chess.PieceType) int {
	if pt == chess.PieceTypeNone {
		return noPromoSlot
	}
	return int(pt)
}

// validSlot reports whether (src, dst, promo-slot) is a geometrically
// reachable chess move: a queen-like or knight-like step for non-promotions,
// or a one-step White pawn push/capture onto rank 8 for promotions (moves are
// always oriented so the side to move plays as White).
func validSlot(src, dst chess.Square, slot int) bool {
	if slot == noPromoSlot {
		return isQueenReachable(src, dst) || isKnightReachable(src, dst)
	}
	// promoSlotOf only ever returns Knight(2)..Queen(5) or noPromoSlot(6);
	// slots 0 (PieceTypeNone) and 1 (Pawn) are never queried by Index, so
	// they're excluded here too rather than allocated dead table entries.
	if slot < int(chess.Knight) || slot > int(chess.Queen) {
		return false
	}
	// Promotion slots: a White-pawn-shaped single step landing on rank index 7.
	if dst.Rank() != 7 {
		return false
	}
	df := dst.File() - src.File()
	dr := dst.Rank() - src.Rank()
	if df < -1 || df > 1 {
		return false
	}
	return dr == 1
}

func isKnightReachable(src, dst chess.Square) bool {
	df := src.File() - dst.File()
	dr := src.Rank() - dst.Rank()
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func isQueenReachable(src, dst chess.Square) bool {
	if src.File() == dst.File() || src.Rank() == dst.Rank() {
		return true
	}
	df := src.File() - dst.File()
	dr := src.Rank() - dst.Rank()
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return df == dr
}

// Index maps an oriented move to its policy class, or -1 if unrepresentable
// (should not happen for a move produced by the legal move generator).
func Index(m chess.Move) int {
	if m.IsQueensideCastle() {
		return queensideCastleIdx
	}
	if m.IsKingsideCastle() {
		return kingsideCastleIdx
	}
	slot := promoSlotOf(m.PromoType())
	v := moveMap[m.Src()][m.Dst()][slot]
	if v < 0 {
		return -1
	}
	return int(v)
}
