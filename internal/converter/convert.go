package converter

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"sort"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/montyformat"
	"github.com/oliverans/starway/internal/starway"
)

// Stats accumulates run totals printed on exit, in the converter's
// progress-summary style.
type Stats struct {
	Games          int
	EntriesWritten int
	Filter         Filter
}

// Options configures one converter run.
type Options struct {
	BufferCapacity int // in records, already rounded to a multiple of BatchSize
	BatchSize      int
	Seed           uint64
	Limit          int // 0 means unlimited
	Progress       io.Writer
}

// Run streams games from mf, filters and encodes each ply into a Starway
// record, and writes the shuffled output to data plus the batch-offsets
// sidecar to offsets.
func Run(mf io.Reader, data io.Writer, offsets io.Writer, opt Options) (Stats, error) {
	reader := montyformat.NewReader(mf)
	buf := NewBuffer(opt.BufferCapacity, opt.BatchSize, opt.Seed)

	var stats Stats
	var dataOffset int64

	for {
		if opt.Limit > 0 && stats.EntriesWritten >= opt.Limit {
			break
		}
		game, err := reader.ReadGame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Games++
		pos := game.Position

		for {
			if opt.Limit > 0 && stats.EntriesWritten >= opt.Limit {
				break
			}
			ply, terminal, err := reader.ReadPly()
			if err != nil {
				return stats, err
			}
			if terminal {
				break
			}

			legalMoves := pos.GenerateLegalMoves(make([]chess.Move, 0, chess.MaxMoves))
			if len(legalMoves) != int(ply.MoveCount) {
				return stats, fmt.Errorf("converter: legal move count %d disagrees with recorded move count %d", len(legalMoves), ply.MoveCount)
			}
			sort.Slice(legalMoves, func(i, j int) bool { return legalMoves[i] < legalMoves[j] })

			bestIdx := -1
			for i, m := range legalMoves {
				if m == ply.Move {
					bestIdx = i
					break
				}
			}
			if bestIdx < 0 {
				return stats, fmt.Errorf("converter: recorded best move %s is not in the legal move list", ply.Move)
			}
			bestVisits := ply.Visits[bestIdx]

			stmCP := scoreToCentipawns(ply.Score)

			if !opt.Filter(pos, len(legalMoves), stmCP, bestVisits, &stats.Filter) {
				rec := encode(pos, game.WhiteWDL, stmCP, ply.Move)
				if err := rec.Validate(); err != nil {
					return stats, fmt.Errorf("converter: %w", err)
				}
				if full := buf.Push(rec); full {
					written, err := buf.Flush(data, offsets, dataOffset)
					if err != nil {
						return stats, err
					}
					dataOffset += int64(written) * starway.RecordSize
				}
				stats.EntriesWritten++
				if opt.Progress != nil && stats.EntriesWritten%1_048_576 == 0 {
					fmt.Fprintf(opt.Progress, "wrote %d entries (%d games)\n", stats.EntriesWritten, stats.Games)
				}
			}

			pos.MakeMove(ply.Move)
			if err := pos.Validate(); err != nil {
				return stats, fmt.Errorf("converter: invalid position after make-move: %w", err)
			}
		}
	}

	written, err := buf.Flush(data, offsets, dataOffset)
	if err != nil {
		return stats, err
	}
	_ = written

	return stats, nil
}

// Filter is a thin adapter so Run can call the Filter type's method through
// a value receiver without importing cycles; kept here to keep convert.go
// the single place that knows the filter call signature.
func (o Options) Filter(pos *chess.Position, legalMoveCount int, stmCP int16, bestVisits uint8, f *Filter) bool {
	return f.ShouldSkip(pos, legalMoveCount, stmCP, bestVisits)
}

// scoreToCentipawns converts Montyformat's sigmoided u16 score to signed
// centipawns via the logit-at-400 formula, the variant this implementation
// commits to (see SPEC_FULL.md's Open Question resolution).
func scoreToCentipawns(mfScore uint16) int16 {
	wdl := float64(mfScore) / float64(math.MaxUint16)
	if wdl == 0 {
		return -32767
	}
	if wdl == 1 {
		return 32767
	}
	unsigmoided := math.Log(wdl/(1-wdl)) * 400
	cp := int32(math.Round(unsigmoided))
	if cp > 32767 {
		cp = 32767
	}
	if cp < -32767 {
		cp = -32767
	}
	return int16(cp)
}

func orientSquare(sq chess.Square, stm chess.Color) chess.Square {
	if stm == chess.Black {
		return sq.FlipRank()
	}
	return sq
}

// encode builds a Starway record from the current (un-oriented) position,
// orienting every field so the side to move is always "white" in the record.
func encode(pos *chess.Position, whiteWDL uint8, stmCP int16, bestMove chess.Move) starway.Record {
	stm := pos.SideToMove
	them := stm.Opponent()

	var rec starway.Record
	rec.STM = stm
	rec.InCheck = pos.InCheck(stm)
	rec.OurKingOriented = orientSquare(pos.King(stm), stm)
	rec.TheirKingOriented = orientSquare(pos.King(them), stm)

	if stm == chess.White {
		rec.CastlingKS = pos.Castling.Has(chess.CastleWhiteK)
		rec.CastlingQS = pos.Castling.Has(chess.CastleWhiteQ)
	} else {
		rec.CastlingKS = pos.Castling.Has(chess.CastleBlackK)
		rec.CastlingQS = pos.Castling.Has(chess.CastleBlackQ)
	}

	if pos.EnPassant == chess.NoSquare {
		rec.EPFile = 8
	} else {
		rec.EPFile = orientSquare(pos.EnPassant, stm).File()
	}

	if stm == chess.White {
		rec.Result = whiteWDL
	} else {
		rec.Result = 2 - whiteWDL
	}

	rec.StmScore = stmCP
	rec.BestMove = bestMove.MaybeRanksFlipped(stm)

	var orientedPieceColor [64]chess.Color
	var orientedPieceType [64]chess.PieceType
	var occupied uint64
	for sq := chess.Square(0); sq < 64; sq++ {
		p := pos.PieceAt(sq)
		if p == chess.NoPiece {
			continue
		}
		osq := orientSquare(sq, stm)
		orientedPieceColor[osq] = p.Color()
		orientedPieceType[osq] = p.Type()
		occupied |= 1 << uint(osq)
	}
	rec.Occupied = occupied

	idx := 0
	remaining := occupied
	for remaining != 0 {
		bitpos := bits.TrailingZeros64(remaining)
		remaining &= remaining - 1

		color := orientedPieceColor[bitpos]
		pt := orientedPieceType[bitpos]
		var colorBit uint8
		if color != stm {
			colorBit = 1
		}
		nibble := colorBit | (uint8(pt-1) << 1)
		starway.PushNibble(&rec.PiecesLo, &rec.PiecesHi, idx, nibble)
		idx++
	}

	return rec
}
