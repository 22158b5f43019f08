// zobrist.go builds the global, immutable Zobrist key tables used to
// incrementally maintain Position.zobrist across make/unmake.
package engine

import "math/rand"

var (
	zobristPiece  [ColorArraySize][PieceArraySize][64]uint64
	zobristCastle [AllCastleRights + 1]uint64
	zobristEpFile [8]uint64
	zobristSide   uint64
)

func init() {
	// The seed is 0x9e3779b97f4a7c15 read as a signed 64-bit value.
	rng := rand.New(rand.NewSource(-0x61c8864680b583eb))

	for c := Color(0); c < ColorArraySize; c++ {
		for p := PieceMinValue; p <= PieceMaxValue; p++ {
			for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
				zobristPiece[c][p][sq] = rng.Uint64()
			}
		}
	}
	// Castle rights keys are independent random values per bit, XORed
	// together, rather than one value per mask: this keeps the update on
	// a rights change to two XORs (old value out, new value in) without
	// a 16-entry table walk.
	var perBit [4]uint64
	for i := range perBit {
		perBit[i] = rng.Uint64()
	}
	for mask := CastleRights(0); mask <= AllCastleRights; mask++ {
		var h uint64
		for i := 0; i < 4; i++ {
			if mask&(1<<uint(i)) != 0 {
				h ^= perBit[i]
			}
		}
		zobristCastle[mask] = h
	}
	for f := range zobristEpFile {
		zobristEpFile[f] = rng.Uint64()
	}
	zobristSide = rng.Uint64()
}

func zobristPieceKey(cp ColorPiece, sq Square) uint64 {
	return zobristPiece[cp.Color()][cp.Piece()][sq]
}
