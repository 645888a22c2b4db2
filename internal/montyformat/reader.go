// Package montyformat reads the upstream Montyformat self-play stream: one
// compressed board and game result per game, followed by a per-ply stream of
// (move, score, move_count, visits) terminated by a null move.
package montyformat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/oliverans/starway/internal/chess"
)

// Reader streams games out of a Montyformat file.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r in a buffered Montyformat stream reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Game holds one game's starting board and white's result code.
type Game struct {
	Position   *chess.Position
	WhiteWDL   uint8 // 0 loss, 1 draw, 2 win, from White's perspective
}

// Ply is a single position's recorded move/score/visit distribution.
type Ply struct {
	Move      chess.Move
	Score     uint16
	MoveCount uint8
	Visits    []uint8
}

// ReadGame reads one compressed board and the trailing white-result byte. It
// returns io.EOF (unwrapped) when the stream is exhausted between games.
func (r *Reader) ReadGame() (Game, error) {
	cb, err := chess.ReadCompressedBoard(r.r)
	if err != nil {
		if err == io.EOF {
			return Game{}, io.EOF
		}
		return Game{}, fmt.Errorf("montyformat: reading compressed board: %w", err)
	}
	pos, err := cb.Decompress()
	if err != nil {
		return Game{}, fmt.Errorf("montyformat: decompressing board: %w", err)
	}
	if err := pos.Validate(); err != nil {
		return Game{}, fmt.Errorf("montyformat: invalid position after decompress: %w", err)
	}

	var wdlByte [1]byte
	if _, err := io.ReadFull(r.r, wdlByte[:]); err != nil {
		return Game{}, fmt.Errorf("montyformat: reading game result: %w", err)
	}
	wdl := wdlByte[0]
	if wdl > 2 {
		return Game{}, fmt.Errorf("montyformat: invalid white result byte %d", wdl)
	}

	return Game{Position: pos, WhiteWDL: wdl}, nil
}

// ReadPly reads one per-ply record. Terminal is true (and all other fields
// zero) when the record read was the null-move game terminator.
func (r *Reader) ReadPly() (Ply, bool, error) {
	var moveBytes [2]byte
	if _, err := io.ReadFull(r.r, moveBytes[:]); err != nil {
		return Ply{}, false, fmt.Errorf("montyformat: reading move: %w", err)
	}
	move := chess.Move(binary.LittleEndian.Uint16(moveBytes[:]))
	if move.IsNull() {
		return Ply{}, true, nil
	}

	var scoreBytes [2]byte
	if _, err := io.ReadFull(r.r, scoreBytes[:]); err != nil {
		return Ply{}, false, fmt.Errorf("montyformat: reading score: %w", err)
	}
	score := binary.LittleEndian.Uint16(scoreBytes[:])

	var countByte [1]byte
	if _, err := io.ReadFull(r.r, countByte[:]); err != nil {
		return Ply{}, false, fmt.Errorf("montyformat: reading move count: %w", err)
	}
	count := countByte[0]
	if count == 0 || count > 218 {
		return Ply{}, false, fmt.Errorf("montyformat: move count out of range: %d", count)
	}

	visits := make([]uint8, count)
	if _, err := io.ReadFull(r.r, visits); err != nil {
		return Ply{}, false, fmt.Errorf("montyformat: reading visits: %w", err)
	}

	return Ply{Move: move, Score: score, MoveCount: count, Visits: visits}, false, nil
}
