package chess

import "math/rand"

var zobristPiece [16][64]uint64
var zobristCastle [16]uint64
var zobristEnPassant [8]uint64
var zobristSide uint64

func init() {
	// Fixed seed: hashes only need to be self-consistent within one run.
	rnd := rand.New(rand.NewSource(0xC0DE))
	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist recomputes the hash key from scratch; used by the validator
// to cross-check the incrementally maintained key.
func (p *Position) ComputeZobrist() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		pc := p.mailbox[sq]
		if pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.SideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[int(p.Castling)]
	if p.EnPassant != NoSquare {
		key ^= zobristEnPassant[p.EnPassant.File()]
	}
	return key
}
