// Package starway implements the fixed 32-byte training record the converter
// writes and the dataloader consumes, plus its bit-packed misc field.
package starway

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/oliverans/starway/internal/chess"
)

// RecordSize is the external, packed, little-endian record length in bytes.
const RecordSize = 32

// misc bit layout, per the external interface:
//
//	bit    0      stm (0 white, 1 black)
//	bit    1      in_check
//	bits   2..7   our_king_oriented (0..63)
//	bits   8..13  their_king_oriented (0..63)
//	bit    14     castling_ks
//	bit    15     castling_qs
//	bits   16..19 ep_file (0..7, or 8 for none)
//	bits   20..21 result (0 stm lost, 1 draw, 2 stm won)
//	bits   22..31 reserved, must be 0
const (
	miscShiftSTM          = 0
	miscShiftInCheck       = 1
	miscShiftOurKing       = 2
	miscShiftTheirKing     = 8
	miscShiftCastlingKS    = 14
	miscShiftCastlingQS    = 15
	miscShiftEPFile        = 16
	miscShiftResult        = 20
)

// Record is the in-memory form of a Starway training record.
type Record struct {
	STM               chess.Color
	InCheck            bool
	OurKingOriented    chess.Square
	TheirKingOriented  chess.Square
	CastlingKS         bool
	CastlingQS         bool
	EPFile             int // 0..7, or 8 for none
	Result             uint8 // 0 stm lost, 1 draw, 2 stm won
	Occupied           uint64
	PiecesLo, PiecesHi uint64 // u128 nibble stream as two u64s
	StmScore           int16
	BestMove           chess.Move
}

func (r *Record) misc() uint32 {
	var m uint32
	if r.STM == chess.Black {
		m |= 1 << miscShiftSTM
	}
	if r.InCheck {
		m |= 1 << miscShiftInCheck
	}
	m |= uint32(r.OurKingOriented) << miscShiftOurKing
	m |= uint32(r.TheirKingOriented) << miscShiftTheirKing
	if r.CastlingKS {
		m |= 1 << miscShiftCastlingKS
	}
	if r.CastlingQS {
		m |= 1 << miscShiftCastlingQS
	}
	m |= uint32(r.EPFile) << miscShiftEPFile
	m |= uint32(r.Result) << miscShiftResult
	return m
}

func fromMisc(m uint32) (stm chess.Color, inCheck bool, ourKing, theirKing chess.Square, castlingKS, castlingQS bool, epFile int, result uint8) {
	if m&(1<<miscShiftSTM) != 0 {
		stm = chess.Black
	}
	inCheck = m&(1<<miscShiftInCheck) != 0
	ourKing = chess.Square((m >> miscShiftOurKing) & 0x3F)
	theirKing = chess.Square((m >> miscShiftTheirKing) & 0x3F)
	castlingKS = m&(1<<miscShiftCastlingKS) != 0
	castlingQS = m&(1<<miscShiftCastlingQS) != 0
	epFile = int((m >> miscShiftEPFile) & 0xF)
	result = uint8((m >> miscShiftResult) & 0x3)
	return
}

// Validate checks the record-level invariants required before a write:
// EP field <= 8, result code <= 2, popcount(occupied) in [3,32], both king
// squares present in occupied, best move non-null.
func (r *Record) Validate() error {
	if r.EPFile > 8 {
		return fmt.Errorf("starway: ep_file out of range: %d", r.EPFile)
	}
	if r.Result > 2 {
		return fmt.Errorf("starway: result out of range: %d", r.Result)
	}
	popcount := countBits(r.Occupied)
	if popcount < 3 || popcount > 32 {
		return fmt.Errorf("starway: popcount(occupied) out of range: %d", popcount)
	}
	if r.Occupied&(1<<uint(r.OurKingOriented)) == 0 {
		return fmt.Errorf("starway: our_king_oriented square not set in occupied")
	}
	if r.Occupied&(1<<uint(r.TheirKingOriented)) == 0 {
		return fmt.Errorf("starway: their_king_oriented square not set in occupied")
	}
	if r.BestMove.IsNull() {
		return fmt.Errorf("starway: best_move is null")
	}
	return nil
}

func countBits(x uint64) int {
	n := 0
	for x != 0 {
		n++
		x &= x - 1
	}
	return n
}

// Encode serializes the record field-by-field as little-endian bytes (Go has
// no portable packed-struct layout, so the wire order is explicit here rather
// than relying on struct tags).
func (r *Record) Encode() [RecordSize]byte {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], r.misc())
	binary.LittleEndian.PutUint64(buf[4:12], r.Occupied)
	binary.LittleEndian.PutUint64(buf[12:20], r.PiecesLo)
	binary.LittleEndian.PutUint64(buf[20:28], r.PiecesHi)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(r.StmScore))
	binary.LittleEndian.PutUint16(buf[30:32], uint16(r.BestMove))
	return buf
}

// Decode parses a RecordSize-byte buffer into a Record.
func Decode(buf [RecordSize]byte) Record {
	var r Record
	m := binary.LittleEndian.Uint32(buf[0:4])
	r.STM, r.InCheck, r.OurKingOriented, r.TheirKingOriented, r.CastlingKS, r.CastlingQS, r.EPFile, r.Result = fromMisc(m)
	r.Occupied = binary.LittleEndian.Uint64(buf[4:12])
	r.PiecesLo = binary.LittleEndian.Uint64(buf[12:20])
	r.PiecesHi = binary.LittleEndian.Uint64(buf[20:28])
	r.StmScore = int16(binary.LittleEndian.Uint16(buf[28:30]))
	r.BestMove = chess.Move(binary.LittleEndian.Uint16(buf[30:32]))
	return r
}

// WriteTo writes the record's encoded bytes to w.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	buf := r.Encode()
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadFrom reads RecordSize bytes from r and decodes them.
func ReadFrom(r io.Reader) (Record, error) {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Record{}, err
	}
	return Decode(buf), nil
}

// PushNibble appends a 4-bit value as the next-highest nibble of the 128-bit
// (lo, hi) pieces field, used while encoding the nibble stream in ascending
// occupied-square order.
func PushNibble(lo, hi *uint64, filled int, nibble uint8) {
	shift := uint((filled % 16) * 4)
	if filled < 16 {
		*lo |= uint64(nibble&0xF) << shift
	} else {
		*hi |= uint64(nibble&0xF) << shift
	}
}

// PopNibble reads the nibble at position idx (0-based, ascending) from the
// (lo, hi) pair without mutating it, mirroring the dataloader's "shift the
// pair by 4 each step" idiom from a read-only accessor instead.
func PopNibble(lo, hi uint64, idx int) uint8 {
	shift := uint((idx % 16) * 4)
	if idx < 16 {
		return uint8((lo >> shift) & 0xF)
	}
	return uint8((hi >> shift) & 0xF)
}
