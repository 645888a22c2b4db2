// Package chess implements the bitboard position representation, legal move
// generator and the external Montyformat/compressed-board codecs that the
// converter and dataloader build on.
package chess

import "math/bits"

// Square is a board index 0..63 in rank-major layout: A1=0, H1=7, A8=56, H8=63.
type Square int8

// NoSquare marks the absence of a square (e.g. no en-passant target).
const NoSquare Square = -1

// File returns 0..7 (A..H).
func (s Square) File() int { return int(s) & 7 }

// Rank returns 0..7 (rank 1..8).
func (s Square) Rank() int { return int(s) >> 3 }

// FlipRank mirrors a square across the board's horizontal midline (XOR 56).
func (s Square) FlipRank() Square { return Square(int(s) ^ 56) }

// FlipFile mirrors a square across the board's vertical midline (XOR 7).
func (s Square) FlipFile() Square { return Square(int(s) ^ 7) }

func squareOf(file, rank int) Square { return Square(rank*8 + file) }

// Color identifies a side.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opponent returns the other color.
func (c Color) Opponent() Color { return c ^ 1 }

// PieceType is a colorless chess piece kind. PieceTypeNone denotes an empty square.
type PieceType uint8

const (
	PieceTypeNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece combines a color and a type; NoPiece marks an empty mailbox entry.
type Piece uint8

const NoPiece Piece = 0

// MakePiece packs a color and type into a mailbox entry. Black pieces set bit 3,
// mirroring the teacher's encoding so Type()/Color() stay cheap masks.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if c == Black {
		p |= 8
	}
	return p
}

// Type strips the color bit.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color reports the owning side; NoPiece defaults to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// Bitboard is a set of squares, one bit per square.
type Bitboard uint64

// Bit returns the single-square bitboard for sq.
func Bit(sq Square) Bitboard { return Bitboard(1) << uint(sq) }

// LSB returns the lowest-indexed set square, or NoSquare if empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB clears and returns the lowest-indexed set square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Count returns the population count.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// Empty reports whether the bitboard has no set bits.
func (b Bitboard) Empty() bool { return b == 0 }

// CastlingRights is a bitmask over the four classical rook-origin squares that
// still carry a castling right.
type CastlingRights uint8

const (
	CastleWhiteK CastlingRights = 1 << iota
	CastleWhiteQ
	CastleBlackK
	CastleBlackQ
)

// Has reports whether a specific right is present.
func (c CastlingRights) Has(flag CastlingRights) bool { return c&flag != 0 }

// rankFileMasks are precomputed once; used throughout attack generation.
var fileMask [8]Bitboard
var rankMask [8]Bitboard

func init() {
	for f := 0; f < 8; f++ {
		var m Bitboard
		for r := 0; r < 8; r++ {
			m |= Bit(squareOf(f, r))
		}
		fileMask[f] = m
	}
	for r := 0; r < 8; r++ {
		var m Bitboard
		for f := 0; f < 8; f++ {
			m |= Bit(squareOf(f, r))
		}
		rankMask[r] = m
	}
}
