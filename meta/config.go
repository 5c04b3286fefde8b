package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the file configuration of the command line tool.
type Settings struct {
	LogLevel   string             `yaml:"log_level"`
	Search     SearchSettings     `yaml:"search"`
	Server     ServerSettings     `yaml:"server"`
	Experiment ExperimentSettings `yaml:"experiment"`
}

type SearchSettings struct {
	Algorithm    string        `yaml:"algorithm"` // mcts or minimax
	UseTimeLimit bool          `yaml:"use_time_limit"`
	TimeLimit    time.Duration `yaml:"time_limit"`
	MaxRollouts  int           `yaml:"max_rollouts"`
	PlayoutDepth int           `yaml:"playout_depth"`
	Exploration  float64       `yaml:"exploration"`
	Promotions   []string      `yaml:"promotions"`
	Depth        int           `yaml:"depth"`
	Evaluator    string        `yaml:"evaluator"`
	Seed         uint64        `yaml:"seed"` // 0 seeds from the clock
}

type ServerSettings struct {
	Addr string `yaml:"addr"`
}

type ExperimentSettings struct {
	OutDir   string          `yaml:"out_dir"`
	Games    int             `yaml:"games"`    // Games per matchup
	Parallel int             `yaml:"parallel"` // Games played concurrently
	MaxMoves int             `yaml:"max_moves"`
	Agents   []AgentSettings `yaml:"agents"`
}

// AgentSettings describes one experiment participant. Zero fields inherit
// from the search section.
type AgentSettings struct {
	Name        string        `yaml:"name"`
	Algorithm   string        `yaml:"algorithm"`
	Rollouts    int           `yaml:"rollouts"`
	Duration    time.Duration `yaml:"duration"`
	Cutoff      int           `yaml:"cutoff"`
	Exploration float64       `yaml:"exploration"`
	Depth       int           `yaml:"depth"`
	Evaluator   string        `yaml:"evaluator"`
	URL         string        `yaml:"url"` // Remote agent server, if any
}

func Defaults() Settings {
	return Settings{
		LogLevel: "info",
		Search: SearchSettings{
			Algorithm:    "mcts",
			UseTimeLimit: true,
			TimeLimit:    TIME_LIMIT,
			MaxRollouts:  MAX_ROLLOUTS,
			PlayoutDepth: PLAYOUT_DEPTH,
			Exploration:  EXPLORATION,
			Promotions:   []string{"queen", "knight"},
			Depth:        MINIMAX_DEPTH,
			Evaluator:    "material",
		},
		Server: ServerSettings{Addr: ":8080"},
		Experiment: ExperimentSettings{
			OutDir:   "results",
			Games:    10,
			Parallel: 4,
			MaxMoves: MAX_MOVES,
		},
	}
}

// Load reads a YAML settings file. Fields missing from the file keep their
// default values; unknown fields are rejected.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config: %w", err)
	}
	settings, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

func Parse(data []byte) (Settings, error) {
	settings := Defaults()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return settings, nil
}
