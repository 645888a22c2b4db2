package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func pieceFromFENChar(ch byte) (Color, PieceType, bool) {
	var c Color
	if ch >= 'a' {
		c = Black
	} else {
		c = White
	}
	switch ch {
	case 'P', 'p':
		return c, Pawn, true
	case 'N', 'n':
		return c, Knight, true
	case 'B', 'b':
		return c, Bishop, true
	case 'R', 'r':
		return c, Rook, true
	case 'Q', 'q':
		return c, Queen, true
	case 'K', 'k':
		return c, King, true
	}
	return White, PieceTypeNone, false
}

func fenCharFromPiece(p Piece) byte {
	letters := []byte{0, 'P', 'N', 'B', 'R', 'Q', 'K'}
	ch := letters[p.Type()]
	if p.Color() == Black {
		ch += 'a' - 'A'
	}
	return ch
}

// ParseFEN parses a FEN string (at least 4 whitespace-separated fields; the
// halfmove/fullmove fields are optional and default to 0/1) into a Position.
// Invalid input returns an error; callers treat FEN errors as fatal structural
// errors per the converter's error-handling domain.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("chess: FEN needs at least 4 fields, got %d", len(fields))
	}

	pos := NewEmptyPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("chess: FEN board must have 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			c, pt, ok := pieceFromFENChar(ch)
			if !ok {
				return nil, fmt.Errorf("chess: bad FEN piece char %q", ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("chess: FEN rank overruns 8 files")
			}
			pos.place(c, pt, squareOf(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("chess: FEN rank %d does not sum to 8 files", i)
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
		pos.zobrist ^= zobristSide
	default:
		return nil, fmt.Errorf("chess: bad FEN side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.SetCastling(CastleWhiteK)
			case 'Q':
				pos.SetCastling(CastleWhiteQ)
			case 'k':
				pos.SetCastling(CastleBlackK)
			case 'q':
				pos.SetCastling(CastleBlackQ)
			default:
				return nil, fmt.Errorf("chess: bad FEN castling char %q", ch)
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseAlgebraic(fields[3])
		if err != nil {
			return nil, err
		}
		pos.SetEnPassant(sq)
	}

	pos.HalfmoveClock = 0
	pos.FullmoveNumber = 1
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("chess: bad FEN halfmove clock: %w", err)
		}
		pos.HalfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("chess: bad FEN fullmove counter: %w", err)
		}
		pos.FullmoveNumber = n
	}

	return pos, nil
}

func parseAlgebraic(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("chess: bad square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("chess: bad square %q", s)
	}
	return squareOf(file, rank), nil
}

func algebraicOf(sq Square) string {
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ToFEN serializes the position back to FEN notation.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.mailbox[squareOf(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenCharFromPiece(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	if p.Castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.Castling.Has(CastleWhiteK) {
			sb.WriteByte('K')
		}
		if p.Castling.Has(CastleWhiteQ) {
			sb.WriteByte('Q')
		}
		if p.Castling.Has(CastleBlackK) {
			sb.WriteByte('k')
		}
		if p.Castling.Has(CastleBlackQ) {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')
	if p.EnPassant == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(algebraicOf(p.EnPassant))
	}
	fmt.Fprintf(&sb, " %d %d", p.HalfmoveClock, p.FullmoveNumber)
	return sb.String()
}
