package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ─── Study Definition File ──────────────────────────────────────────────────

// EngineConfig mirrors gmab.Config in the TOML study file. Zero values
// take the engine defaults.
type EngineConfig struct {
	PopulationSize int     `toml:"population_size"`
	MutationRate   float64 `toml:"mutation_rate"`
	CrossoverRate  float64 `toml:"crossover_rate"`
	MutationSpan   float64 `toml:"mutation_span"`
}

// BoundConfig is one dimension of the search space.
type BoundConfig struct {
	Low  int `toml:"low"`
	High int `toml:"high"`
}

// StudyFile is the TOML study definition consumed by 'gmab run'.
type StudyFile struct {
	Function string        `toml:"function"`
	Budget   int           `toml:"budget"`
	TopK     int           `toml:"top_k"`
	Seed     *int64        `toml:"seed"`
	Maximize bool          `toml:"maximize"`
	Bounds   []BoundConfig `toml:"bounds"`
	Engine   EngineConfig  `toml:"engine"`
}

// DefaultStudyFile returns the defaults applied before decoding.
func DefaultStudyFile() StudyFile {
	return StudyFile{
		Function: "rosenbrock",
		Budget:   10000,
		TopK:     1,
	}
}

// LoadStudyFile reads and decodes a TOML study definition.
func LoadStudyFile(path string) (StudyFile, error) {
	cfg := DefaultStudyFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read study file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode study file: %w", err)
	}
	if len(cfg.Bounds) == 0 {
		return cfg, fmt.Errorf("study file %s defines no bounds", path)
	}
	return cfg, nil
}
