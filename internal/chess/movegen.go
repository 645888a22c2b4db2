package chess

// MaxMoves bounds the legal-move buffer a single position can produce.
const MaxMoves = 256

// GenerateLegalMoves appends every legal move for the side to move into dst
// and returns the extended slice. Single-pass: no make/unmake search, only
// king moves re-query attacks with the king removed from occupancy.
func (p *Position) GenerateLegalMoves(dst []Move) []Move {
	us := p.SideToMove
	them := us.Opponent()
	occ := p.Occupancy()
	ownOcc := p.ColorOccupancy(us)
	king := p.King(us)

	checkers := p.attackers(king, them, occ)
	numCheckers := checkers.Count()

	// King moves: remove the king from occupancy before re-querying enemy
	// attacks so a slider's shadow along the checking ray still forbids the
	// king from "hiding" behind itself.
	occNoKing := occ &^ Bit(king)
	kingTargets := KingAttacks(king) &^ ownOcc
	for t := kingTargets; t != 0; {
		sq := t.PopLSB()
		if p.attackers(sq, them, occNoKing) == 0 {
			flag := FlagQuiet
			if p.mailbox[sq] != NoPiece {
				flag = FlagCapture
			}
			dst = append(dst, NewMove(king, sq, flag))
		}
	}

	if numCheckers >= 2 {
		return dst
	}

	// Castling: only from the classical start square, only when not in check.
	if numCheckers == 0 {
		dst = p.generateCastling(dst, us, occ, them)
	}

	// Check-restriction mask: squares a non-king move must land on.
	restrict := ^Bitboard(0)
	if numCheckers == 1 {
		checkerSq := checkers.LSB()
		restrict = checkers | Between(king, checkerSq)
	}

	pinnedOrth, pinnedDiag := p.computePins(us, king, occ)
	pinned := pinnedOrth | pinnedDiag

	enemyOcc := p.ColorOccupancy(them)

	dst = p.generatePawnMoves(dst, us, occ, enemyOcc, restrict, pinned)
	dst = p.generateEnPassant(dst, us, king, occ, restrict, pinned)

	knights := p.ColorPieceBB(us, Knight)
	for knights != 0 {
		sq := knights.PopLSB()
		if Bit(sq)&pinned != 0 {
			continue // a pinned knight can never move without exposing the king
		}
		targets := KnightAttacks(sq) &^ ownOcc & restrict
		dst = appendSliderMoves(dst, sq, targets, p)
	}

	// A slider pinned against its own movement direction (e.g. a rook pinned
	// diagonally) must pass the full pin mask here, not just the type-matching
	// one: LineThrough(king, sq) then correctly intersects its targets to
	// empty, rather than skipping the restriction entirely.
	dst = p.generateSliderMoves(dst, us, Bishop, occ, ownOcc, restrict, pinned, king)
	dst = p.generateSliderMoves(dst, us, Rook, occ, ownOcc, restrict, pinned, king)
	dst = p.generateSliderMoves(dst, us, Queen, occ, ownOcc, restrict, pinned, king)

	return dst
}

func appendSliderMoves(dst []Move, sq Square, targets Bitboard, p *Position) []Move {
	for targets != 0 {
		t := targets.PopLSB()
		flag := FlagQuiet
		if p.mailbox[t] != NoPiece {
			flag = FlagCapture
		}
		dst = append(dst, NewMove(sq, t, flag))
	}
	return dst
}

func (p *Position) generateSliderMoves(dst []Move, us Color, pt PieceType, occ, ownOcc, restrict, pinnedMask Bitboard, king Square) []Move {
	pieces := p.ColorPieceBB(us, pt)
	for pieces != 0 {
		sq := pieces.PopLSB()
		var attacks Bitboard
		switch pt {
		case Bishop:
			attacks = BishopAttacks(sq, occ)
		case Rook:
			attacks = RookAttacks(sq, occ)
		case Queen:
			attacks = QueenAttacks(sq, occ)
		}
		targets := attacks &^ ownOcc & restrict
		if Bit(sq)&pinnedMask != 0 {
			targets &= LineThrough(king, sq)
		}
		dst = appendSliderMoves(dst, sq, targets, p)
	}
	return dst
}

func (p *Position) generateCastling(dst []Move, us Color, occ Bitboard, them Color) []Move {
	if us == White {
		if p.Castling.Has(CastleWhiteK) && p.mailbox[4] == MakePiece(White, King) && p.mailbox[7] == MakePiece(White, Rook) {
			if occ&(Bit(5)|Bit(6)) == 0 && p.attackers(5, them, occ) == 0 && p.attackers(6, them, occ) == 0 {
				dst = append(dst, NewMove(4, 6, FlagCastleKS))
			}
		}
		if p.Castling.Has(CastleWhiteQ) && p.mailbox[4] == MakePiece(White, King) && p.mailbox[0] == MakePiece(White, Rook) {
			if occ&(Bit(1)|Bit(2)|Bit(3)) == 0 && p.attackers(2, them, occ) == 0 && p.attackers(3, them, occ) == 0 {
				dst = append(dst, NewMove(4, 2, FlagCastleQS))
			}
		}
	} else {
		if p.Castling.Has(CastleBlackK) && p.mailbox[60] == MakePiece(Black, King) && p.mailbox[63] == MakePiece(Black, Rook) {
			if occ&(Bit(61)|Bit(62)) == 0 && p.attackers(61, them, occ) == 0 && p.attackers(62, them, occ) == 0 {
				dst = append(dst, NewMove(60, 62, FlagCastleKS))
			}
		}
		if p.Castling.Has(CastleBlackQ) && p.mailbox[60] == MakePiece(Black, King) && p.mailbox[56] == MakePiece(Black, Rook) {
			if occ&(Bit(57)|Bit(58)|Bit(59)) == 0 && p.attackers(58, them, occ) == 0 && p.attackers(59, them, occ) == 0 {
				dst = append(dst, NewMove(60, 58, FlagCastleQS))
			}
		}
	}
	return dst
}

// computePins returns (orthogonally pinned, diagonally pinned) own-piece
// bitboards: X-ray the king's rook/bishop rays through the first own blocker
// and check whether an enemy slider of the matching kind sits beyond it.
func (p *Position) computePins(us Color, king Square, occ Bitboard) (orth, diag Bitboard) {
	them := us.Opponent()
	ownOcc := p.ColorOccupancy(us)

	orthAttackersFromKing := RookAttacks(king, occ&^ownOcc)
	enemyOrth := p.ColorPieceBB(them, Rook) | p.ColorPieceBB(them, Queen)
	for candidates := orthAttackersFromKing & enemyOrth; candidates != 0; {
		slider := candidates.PopLSB()
		between := Between(king, slider) & occ
		if between.Count() == 1 && between&ownOcc != 0 {
			orth |= between
		}
	}

	diagAttackersFromKing := BishopAttacks(king, occ&^ownOcc)
	enemyDiag := p.ColorPieceBB(them, Bishop) | p.ColorPieceBB(them, Queen)
	for candidates := diagAttackersFromKing & enemyDiag; candidates != 0; {
		slider := candidates.PopLSB()
		between := Between(king, slider) & occ
		if between.Count() == 1 && between&ownOcc != 0 {
			diag |= between
		}
	}
	return orth, diag
}

func (p *Position) generatePawnMoves(dst []Move, us Color, occ, enemyOcc, restrict, pinned Bitboard) []Move {
	pawns := p.ColorPieceBB(us, Pawn)
	king := p.King(us)
	forward := 8
	startRank, promoRank, doubleRank := 1, 7, 3
	if us == Black {
		forward = -8
		startRank, promoRank, doubleRank = 6, 0, 4
	}

	for bb := pawns; bb != 0; {
		sq := bb.PopLSB()
		pinLine := ^Bitboard(0)
		isPinned := Bit(sq)&pinned != 0
		if isPinned {
			pinLine = LineThrough(king, sq)
		}

		// Captures
		for caps := PawnAttacks(us, sq) & enemyOcc & restrict; caps != 0; {
			t := caps.PopLSB()
			if isPinned && pinLine&Bit(t) == 0 {
				continue
			}
			if t.Rank() == promoRank {
				dst = append(dst, NewMove(sq, t, promoFlag(Knight, true)))
				dst = append(dst, NewMove(sq, t, promoFlag(Bishop, true)))
				dst = append(dst, NewMove(sq, t, promoFlag(Rook, true)))
				dst = append(dst, NewMove(sq, t, promoFlag(Queen, true)))
			} else {
				dst = append(dst, NewMove(sq, t, FlagCapture))
			}
		}

		// Single push
		one := Square(int(sq) + forward)
		if one >= 0 && one < 64 && p.mailbox[one] == NoPiece {
			if !isPinned || pinLine&Bit(one) != 0 {
				if Bit(one)&restrict != 0 {
					if one.Rank() == promoRank {
						dst = append(dst, NewMove(sq, one, promoFlag(Knight, false)))
						dst = append(dst, NewMove(sq, one, promoFlag(Bishop, false)))
						dst = append(dst, NewMove(sq, one, promoFlag(Rook, false)))
						dst = append(dst, NewMove(sq, one, promoFlag(Queen, false)))
					} else {
						dst = append(dst, NewMove(sq, one, FlagQuiet))
					}
				}
				// Double push
				if sq.Rank() == startRank {
					two := Square(int(sq) + 2*forward)
					if p.mailbox[two] == NoPiece && Bit(two)&restrict != 0 {
						if !isPinned || pinLine&Bit(two) != 0 {
							dst = append(dst, NewMove(sq, two, FlagDoublePush))
						}
					}
				}
			}
		}
		_ = doubleRank
	}
	return dst
}

func (p *Position) generateEnPassant(dst []Move, us Color, king Square, occ, restrict, pinned Bitboard) []Move {
	if p.EnPassant == NoSquare {
		return dst
	}
	ep := p.EnPassant
	them := us.Opponent()
	capturedSq := ep - 8
	if us == Black {
		capturedSq = ep + 8
	}
	if Bit(capturedSq)&restrict == 0 && Bit(ep)&restrict == 0 {
		// neither the capture square nor the landing square resolves a single
		// check, so en-passant cannot be the escape
		return dst
	}
	attackersOfEp := PawnAttacks(them, ep) & p.ColorPieceBB(us, Pawn)
	for a := attackersOfEp; a != 0; {
		sq := a.PopLSB()
		// Simulate the resulting occupancy: mover leaves `sq`, captured pawn
		// leaves `capturedSq`, mover arrives at `ep`. Masking by `after` drops
		// the captured pawn itself from the attacker set.
		after := occ &^ Bit(sq) &^ Bit(capturedSq) | Bit(ep)
		if p.attackers(king, them, after)&after != 0 {
			continue
		}
		dst = append(dst, NewMove(sq, ep, FlagEnPassant))
	}
	return dst
}
