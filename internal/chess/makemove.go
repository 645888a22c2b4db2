package chess

// UndoState captures what MakeMove mutated, sufficient for UnmakeMove to
// restore the prior position exactly.
type UndoState struct {
	move          Move
	movedType     PieceType
	capturedType  PieceType
	capturedColor Color
	capturedSq    Square
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

var castleRookSquares = map[Square]struct{ from, to Square }{
	6:  {7, 5},   // white O-O
	2:  {0, 3},   // white O-O-O
	62: {63, 61}, // black O-O
	58: {56, 59}, // black O-O-O
}

// rookOriginRight maps a rook-origin square to the right it guards, used when
// a move's origin or capture square lands on a castling-rook square.
var rookOriginRight = map[Square]CastlingRights{
	0:  CastleWhiteQ,
	7:  CastleWhiteK,
	56: CastleBlackQ,
	63: CastleBlackK,
}

// MakeMove applies m unconditionally (the caller is expected to have obtained
// it from the legal move generator) and returns undo information. Castling
// rook movement, en-passant captures, promotions, castling-rights clearing,
// EP-square bookkeeping, halfmove/fullmove counters and the Zobrist key are
// all updated in place.
func (p *Position) MakeMove(m Move) UndoState {
	us := p.SideToMove
	them := us.Opponent()
	src, dst := m.Src(), m.Dst()
	flag := m.Flag()

	moved := p.mailbox[src]
	movedType := moved.Type()

	st := UndoState{
		move:          m,
		movedType:     movedType,
		capturedType:  PieceTypeNone,
		capturedSq:    NoSquare,
		prevCastling:  p.Castling,
		prevEnPassant: p.EnPassant,
		prevHalfmove:  p.HalfmoveClock,
		prevFullmove:  p.FullmoveNumber,
		prevZobrist:   p.zobrist,
	}

	p.SetEnPassant(NoSquare)

	if flag == FlagEnPassant {
		capSq := dst - 8
		if us == Black {
			capSq = dst + 8
		}
		st.capturedType = Pawn
		st.capturedColor = them
		st.capturedSq = capSq
		p.TogglePiece(them, Pawn, capSq)
	} else if m.IsCapture() {
		capPiece := p.mailbox[dst]
		st.capturedType = capPiece.Type()
		st.capturedColor = them
		st.capturedSq = dst
		p.TogglePiece(them, capPiece.Type(), dst)
		if right, ok := rookOriginRight[dst]; ok {
			p.ClearCastling(right)
		}
	}

	p.TogglePiece(us, movedType, src)
	if m.IsPromo() {
		p.TogglePiece(us, m.PromoType(), dst)
	} else {
		p.TogglePiece(us, movedType, dst)
	}

	if flag == FlagCastleKS || flag == FlagCastleQS {
		rook := castleRookSquares[dst]
		p.TogglePiece(us, Rook, rook.from)
		p.TogglePiece(us, Rook, rook.to)
	}

	if movedType == King {
		if us == White {
			p.ClearCastling(CastleWhiteK)
			p.ClearCastling(CastleWhiteQ)
		} else {
			p.ClearCastling(CastleBlackK)
			p.ClearCastling(CastleBlackQ)
		}
	}
	if right, ok := rookOriginRight[src]; ok {
		p.ClearCastling(right)
	}

	if flag == FlagDoublePush {
		epSq := src + 8
		if us == Black {
			epSq = src - 8
		}
		p.SetEnPassant(epSq)
	}

	if movedType == Pawn || m.IsCapture() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	if us == Black {
		p.FullmoveNumber++
	}
	p.SetSideToMove(them)

	return st
}

// UnmakeMove reverses the effect of MakeMove, restoring the exact prior state.
func (p *Position) UnmakeMove(st UndoState) {
	them := p.SideToMove
	us := them.Opponent()
	p.SetSideToMove(us)

	src, dst := st.move.Src(), st.move.Dst()
	flag := st.move.Flag()

	if flag == FlagCastleKS || flag == FlagCastleQS {
		rook := castleRookSquares[dst]
		p.TogglePiece(us, Rook, rook.to)
		p.TogglePiece(us, Rook, rook.from)
	}

	if st.move.IsPromo() {
		p.TogglePiece(us, st.move.PromoType(), dst)
	} else {
		p.TogglePiece(us, st.movedType, dst)
	}
	p.TogglePiece(us, st.movedType, src)

	if st.capturedType != PieceTypeNone {
		p.TogglePiece(st.capturedColor, st.capturedType, st.capturedSq)
	}

	p.Castling = st.prevCastling
	p.EnPassant = st.prevEnPassant
	p.HalfmoveClock = st.prevHalfmove
	p.FullmoveNumber = st.prevFullmove
	p.zobrist = st.prevZobrist
}
