package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID          int
	Name        string
	Kind        string // "mcts", "minimax" or "remote"
	Rollouts    int
	Duration    time.Duration
	Cutoff      int
	Exploration float64
	Depth       int
	Evaluator   string
	URL         string // Agent server of a remote agent
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing white
	Agent2 int // AgentConfig.ID playing black
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type moveRow struct {
	Game             int32   `parquet:"game"`
	Step             int32   `parquet:"step"`
	Player           string  `parquet:"player,dict"`
	Move             string  `parquet:"move"`
	DurationMs       int64   `parquet:"duration_ms"`
	Rollouts         int32   `parquet:"rollouts"`
	DecisiveRollouts int32   `parquet:"decisive_rollouts"`
	TerminalVisits   int32   `parquet:"terminal_visits"`
	TreeSize         int32   `parquet:"tree_size"`
	Cutoff           int32   `parquet:"cutoff"`
	Exploration      float64 `parquet:"exploration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh run directory under root/name, named by the
// current timestamp and a short run id.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	runID := uuid.NewString()[:8]
	baseDir := filepath.Join(root, name, timestamp+"-"+runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "kind", "rollouts", "duration", "cutoff", "exploration", "depth", "evaluator", "url"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			config.Kind,
			strconv.Itoa(config.Rollouts),
			config.Duration.String(),
			strconv.Itoa(config.Cutoff),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			strconv.Itoa(config.Depth),
			config.Evaluator,
			config.URL,
		})
	}
	if err := w.writeCSV("agent_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves", "final_fen", "termination"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			record.FinalFEN,
			record.Termination,
		})
	}
	if err := w.writeCSV("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "rollouts", "decisive_rollouts", "terminal_visits", "tree_size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Move,
			record.Duration.String(),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.DecisiveRollouts),
			strconv.Itoa(record.TerminalVisits),
			strconv.Itoa(record.TreeSize),
		})
	}
	if err := w.writeCSV("move_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

// WriteMoveRecordsParquet stores the move records as a zstd-compressed
// parquet file for analysis tooling.
func (w *Writer) WriteMoveRecordsParquet(records []MoveRecord) error {
	rows := make([]moveRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, moveRow{
			Game:             int32(record.Game),
			Step:             int32(record.Step),
			Player:           record.Player,
			Move:             record.Move,
			DurationMs:       record.Duration.Milliseconds(),
			Rollouts:         int32(record.Rollouts),
			DecisiveRollouts: int32(record.DecisiveRollouts),
			TerminalVisits:   int32(record.TerminalVisits),
			TreeSize:         int32(record.TreeSize),
			Cutoff:           int32(record.Cutoff),
			Exploration:      record.Exploration,
		})
	}

	path := filepath.Join(w.baseDir, "move_records.parquet")
	tmpPath := path + ".tmp"
	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_record_v1"),
	); err != nil {
		return fmt.Errorf("failed to write move records parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename move records parquet: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
