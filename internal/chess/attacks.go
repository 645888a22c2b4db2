package chess

import "math/bits"

// Precomputed jump-piece attack tables.
var knightAttacks [64]Bitboard
var kingAttacks [64]Bitboard
var pawnAttacksTbl [2][64]Bitboard

// Per-square, per-direction rays (excluding the origin square), used to build
// the slider occupancy masks and attack tables.
var rookRay [64][4]Bitboard   // N, S, E, W
var bishopRay [64][4]Bitboard // NE, NW, SE, SW
var rayUnion [64]Bitboard     // union of all eight directions from a square

// Software-PEXT/PDEP slider attack tables. Built at init() instead of shipped
// as an embedded blob, per the equivalence the spec allows between the two
// strategies.
var rookOccMask [64]Bitboard
var bishopOccMask [64]Bitboard
var rookAttackTable [64][]Bitboard
var bishopAttackTable [64][]Bitboard

// betweenExclusive[a][b] holds the squares strictly between a and b if they
// share a rank, file or diagonal; zero otherwise.
var betweenExclusive [64][64]Bitboard

// lineThrough[a][b] holds the full rank/file/diagonal through a and b; zero
// if a and b are not aligned.
var lineThrough [64][64]Bitboard

func init() {
	initJumpAttacks()
	initRays()
	initSliderTables()
	initLineTables()
}

func initJumpAttacks() {
	knightOffsets := [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		var k, g Bitboard
		for _, o := range knightOffsets {
			rf, ff := r+o[0], f+o[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				k |= Bit(squareOf(ff, rf))
			}
		}
		for _, o := range kingOffsets {
			rf, ff := r+o[0], f+o[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				g |= Bit(squareOf(ff, rf))
			}
		}
		knightAttacks[sq] = k
		kingAttacks[sq] = g

		if r < 7 {
			if f > 0 {
				pawnAttacksTbl[White][sq] |= Bit(squareOf(f-1, r+1))
			}
			if f < 7 {
				pawnAttacksTbl[White][sq] |= Bit(squareOf(f+1, r+1))
			}
		}
		if r > 0 {
			if f > 0 {
				pawnAttacksTbl[Black][sq] |= Bit(squareOf(f-1, r-1))
			}
			if f < 7 {
				pawnAttacksTbl[Black][sq] |= Bit(squareOf(f+1, r-1))
			}
		}
	}
}

func initRays() {
	dirsRook := [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	dirsBishop := [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	for sq := 0; sq < 64; sq++ {
		f, r := sq%8, sq/8
		for d, off := range dirsRook {
			var ray Bitboard
			ff, rr := f+off[0], r+off[1]
			for ff >= 0 && ff < 8 && rr >= 0 && rr < 8 {
				ray |= Bit(squareOf(ff, rr))
				ff += off[0]
				rr += off[1]
			}
			rookRay[sq][d] = ray
		}
		for d, off := range dirsBishop {
			var ray Bitboard
			ff, rr := f+off[0], r+off[1]
			for ff >= 0 && ff < 8 && rr >= 0 && rr < 8 {
				ray |= Bit(squareOf(ff, rr))
				ff += off[0]
				rr += off[1]
			}
			bishopRay[sq][d] = ray
		}
		var u Bitboard
		for _, r4 := range rookRay[sq] {
			u |= r4
		}
		for _, b4 := range bishopRay[sq] {
			u |= b4
		}
		rayUnion[sq] = u
	}
}

// pext is the software bit-extract: the low->high packed bits of x selected by mask.
func pext(x, mask uint64) uint64 {
	var res uint64
	bitpos := uint(0)
	for m := mask; m != 0; {
		b := m & -m
		if x&b != 0 {
			res |= 1 << bitpos
		}
		bitpos++
		m &= m - 1
	}
	return res
}

// pdep is the software bit-deposit: scatters the low bits of x into mask's set bits.
func pdep(x, mask uint64) uint64 {
	var res uint64
	bitpos := uint(0)
	for m := mask; m != 0; {
		b := m & -m
		if x&(1<<bitpos) != 0 {
			res |= b
		}
		bitpos++
		m &= m - 1
	}
	return res
}

func slideAttacks(sq int, occ Bitboard, rays *[4]Bitboard) Bitboard {
	var attacks Bitboard
	for _, ray := range rays {
		attacks |= ray
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		attacks &^= beyondFirstBlocker(Square(sq), ray, blockers)
	}
	return attacks
}

// beyondFirstBlocker returns every square in ray strictly farther from sq than
// the nearest blocker, i.e. the squares that must be masked out of the attack set.
func beyondFirstBlocker(sq Square, ray, blockers Bitboard) Bitboard {
	// Determine travel direction by checking which end of the ray is closer to sq.
	// Squares in `ray` are all on one side of sq (rays are built outward from sq),
	// so the nearest blocker is simply the one with minimal "distance" from sq,
	// found by scanning in index order from sq outward.
	if blockers == 0 {
		return 0
	}
	lowBlocker := Square(bits.TrailingZeros64(uint64(blockers)))
	highBlocker := Square(63 - bits.LeadingZeros64(uint64(blockers)))

	// Ray squares are either all > sq or all < sq (rook/bishop rays are one-directional).
	if ray.LSB() > sq {
		// increasing direction: nearest blocker is the lowest one, mask anything beyond it
		return ray &^ ((Bit(lowBlocker) << 1) - 1)
	}
	// decreasing direction: nearest blocker is the highest one
	return ray & (Bit(highBlocker) - 1)
}

func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		// Relevant-occupancy masks exclude board edges in the ray's direction,
		// matching the conventional magic-bitboard mask trick (edge squares never
		// block further attacks beyond themselves so they're irrelevant to the key).
		rookOccMask[sq] = edgeTrim(sq, rookRay[sq])
		bishopOccMask[sq] = edgeTrim(sq, bishopRay[sq])

		rookAttackTable[sq] = buildSliderTable(sq, rookOccMask[sq], &rookRay[sq])
		bishopAttackTable[sq] = buildSliderTable(sq, bishopOccMask[sq], &bishopRay[sq])
	}
}

func edgeTrim(sq int, rays [4]Bitboard) Bitboard {
	f, r := sq%8, sq/8
	var m Bitboard
	for _, ray := range rays {
		m |= ray
	}
	if f != 0 {
		m &^= fileMask[0]
	}
	if f != 7 {
		m &^= fileMask[7]
	}
	if r != 0 {
		m &^= rankMask[0]
	}
	if r != 7 {
		m &^= rankMask[7]
	}
	return m
}

func buildSliderTable(sq int, mask Bitboard, rays *[4]Bitboard) []Bitboard {
	bitsN := mask.Count()
	size := 1 << uint(bitsN)
	table := make([]Bitboard, size)
	for idx := 0; idx < size; idx++ {
		occ := Bitboard(pdep(uint64(idx), uint64(mask)))
		table[idx] = slideAttacks(sq, occ, rays)
	}
	return table
}

// RookAttacks returns the rook attack set from sq given the full board occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	idx := pext(uint64(occ), uint64(rookOccMask[sq]))
	return rookAttackTable[sq][idx]
}

// BishopAttacks returns the bishop attack set from sq given the full board occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	idx := pext(uint64(occ), uint64(bishopOccMask[sq]))
	return bishopAttackTable[sq][idx]
}

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of the given color attacks from sq.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacksTbl[c][sq] }

func initLineTables() {
	dirs := append(append([][2]int{}, [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}...), [][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}...)
	for a := 0; a < 64; a++ {
		af, ar := a%8, a/8
		for _, d := range dirs {
			var line Bitboard
			f, r := af, ar
			var squares []int
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				squares = append(squares, r*8+f)
				line |= Bit(Square(r*8 + f))
				f += d[0]
				r += d[1]
			}
			if len(squares) < 2 {
				continue
			}
			// Extend the line backwards past a so it spans the whole board.
			for f, r := af-d[0], ar-d[1]; f >= 0 && f < 8 && r >= 0 && r < 8; f, r = f-d[0], r-d[1] {
				line |= Bit(Square(r*8 + f))
			}
			for i, b := range squares {
				if b == a {
					continue
				}
				var between Bitboard
				lo, hi := a, b
				if lo > hi {
					lo, hi = hi, lo
				}
				for j := lo + 1; j < hi; j++ {
					// only include squares that are actually on this ray (monotone index step)
					if onSameLine(squares, j) {
						between |= Bit(Square(j))
					}
				}
				betweenExclusive[a][b] = between
				lineThrough[a][b] = line
				_ = i
			}
		}
	}
}

func onSameLine(squares []int, sq int) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

// Between returns the squares strictly between a and b along a shared rank,
// file or diagonal; zero if a and b are not aligned.
func Between(a, b Square) Bitboard { return betweenExclusive[a][b] }

// LineThrough returns the full line through a and b; zero if not aligned.
func LineThrough(a, b Square) Bitboard { return lineThrough[a][b] }
