package dataloader

import (
	"fmt"

	"github.com/oliverans/starway/internal/chess"
	"github.com/oliverans/starway/internal/policy"
	"github.com/oliverans/starway/internal/starway"
)

// epRank is the rank every oriented en-passant target square sits on: the
// record's orientation always plays the side to move as the "White" half of
// the board, so a double push's passed-over square is always rank 6 (index 5).
const epRank = 5

// mirrorsFiles reports whether a king square on the left half (files A..D)
// triggers this perspective's horizontal mirror, per the external layout.
func mirrorsFiles(kingSq chess.Square) bool { return kingSq.File() < 4 }

// decodeEntry decodes one Starway record into row entryIdx of batch.
func decodeEntry(rec starway.Record, batch *Batch, entryIdx int) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("dataloader: %w", err)
	}

	inCheck := int32(0)
	if rec.InCheck {
		inCheck = 1
	}

	stmXor := chess.Square(0)
	if mirrorsFiles(rec.OurKingOriented) {
		stmXor = 7
	}
	ntmXor := chess.Square(56)
	if mirrorsFiles(rec.TheirKingOriented) {
		ntmXor = 56 ^ 7
	}

	pos := chess.NewEmptyPosition()

	piecesSeen := 0
	remaining := rec.Occupied
	for remaining != 0 {
		sq := chess.Bitboard(remaining).LSB()
		remaining &= remaining - 1

		nibble := starway.PopNibble(rec.PiecesLo, rec.PiecesHi, piecesSeen)
		pieceColor := chess.Color(nibble & 1)
		pieceType := chess.PieceType((nibble>>1)&0x7) + 1

		featRow := entryIdx*MaxPiecesPerPos + piecesSeen

		stmColor := int32(pieceColor)
		ntmColor := int32(1 - pieceColor)

		batch.ActiveFeaturesStm[featRow] = inCheck*768 + stmColor*384 + int32(pieceType-1)*64 + int32(sq^stmXor)
		batch.ActiveFeaturesNtm[featRow] = inCheck*768 + ntmColor*384 + int32(pieceType-1)*64 + int32(sq^ntmXor)

		pos.TogglePiece(pieceColor, pieceType, sq)
		piecesSeen++
	}
	for i := piecesSeen; i < MaxPiecesPerPos; i++ {
		row := entryIdx*MaxPiecesPerPos + i
		batch.ActiveFeaturesStm[row] = -1
		batch.ActiveFeaturesNtm[row] = -1
	}

	if rec.CastlingKS {
		if pos.SideToMove == chess.White {
			pos.SetCastling(chess.CastleWhiteK)
		} else {
			pos.SetCastling(chess.CastleBlackK)
		}
	}
	if rec.CastlingQS {
		if pos.SideToMove == chess.White {
			pos.SetCastling(chess.CastleWhiteQ)
		} else {
			pos.SetCastling(chess.CastleBlackQ)
		}
	}
	if rec.EPFile < 8 {
		pos.SetEnPassant(chess.Square(rec.EPFile + epRank*8))
	}

	batch.StmScores[entryIdx] = rec.StmScore
	batch.StmResults[entryIdx] = float32(rec.Result) / 2.0

	legalMoves := pos.GenerateLegalMoves(make([]chess.Move, 0, chess.MaxMoves))
	if len(legalMoves) == 0 {
		return fmt.Errorf("dataloader: reconstructed position has no legal moves")
	}
	if len(legalMoves) > MaxMovesPerPos {
		return fmt.Errorf("dataloader: reconstructed position has %d legal moves, exceeds row capacity", len(legalMoves))
	}

	bestFound := false
	for i, m := range legalMoves {
		oriented := m
		if mirrorsFiles(rec.OurKingOriented) {
			oriented = m.FilesFlipped()
		}
		idx := policy.Index(oriented)
		if idx < 0 {
			return fmt.Errorf("dataloader: legal move %s maps to no policy class", oriented)
		}
		batch.LegalMoveIdxs[entryIdx*MaxMovesPerPos+i] = int16(idx)

		if m == rec.BestMove {
			batch.BestMoveIdx[entryIdx] = int16(i)
			bestFound = true
		}
	}
	if !bestFound {
		return fmt.Errorf("dataloader: best_move %s not found among reconstructed legal moves", rec.BestMove)
	}
	for i := len(legalMoves); i < MaxMovesPerPos; i++ {
		batch.LegalMoveIdxs[entryIdx*MaxMovesPerPos+i] = -1
	}

	return nil
}
