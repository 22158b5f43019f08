// Package config loads optional tuning overrides from a TOML file,
// letting evaluation weights be adjusted without recompiling.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/PS-Wizard/OopsMate/engine"
)

// Weights overrides a subset of the evaluation's tunable constants.
// Zero-valued fields are left at their compiled-in default; see
// Apply.
type Weights struct {
	PawnValue   int32 `toml:"pawn_value"`
	KnightValue int32 `toml:"knight_value"`
	BishopValue int32 `toml:"bishop_value"`
	RookValue   int32 `toml:"rook_value"`
	QueenValue  int32 `toml:"queen_value"`

	BishopPairMidgame int32 `toml:"bishop_pair_mg"`
	BishopPairEndgame int32 `toml:"bishop_pair_eg"`
}

// Config is the top-level shape of a weights.toml file.
type Config struct {
	Weights Weights `toml:"weights"`
}

// Load parses path as TOML into a Config. A missing file is not an
// error -- callers get the zero Config, equivalent to "use defaults".
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// Apply pushes cfg's overrides into the engine package's tunable
// tables. Fields left at zero keep the engine's compiled-in defaults.
func (cfg Config) Apply() {
	w := cfg.Weights
	engine.SetMaterialValues(w.PawnValue, w.KnightValue, w.BishopValue, w.RookValue, w.QueenValue)
	if w.BishopPairMidgame != 0 || w.BishopPairEndgame != 0 {
		engine.SetBishopPairBonus(w.BishopPairMidgame, w.BishopPairEndgame)
	}
}
