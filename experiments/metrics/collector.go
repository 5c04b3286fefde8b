package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration         time.Duration
	Rollouts         int
	DecisiveRollouts int // Rollouts ended by a king capture
	TerminalVisits   int // Iterations that reached a checkmate or stalemate node
	TreeSize         int
	Cutoff           int
	Exploration      float64
}

type MoveMetric struct {
	Step   int
	Player string // Side to move
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" for a draw or an unfinished game
	Termination    string // How the game ended, "ongoing" at the move cap
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	FinalFEN       string
}

type Collector interface {
	Start(cutoff int, exploration float64)
	AddRollout()
	AddDecisiveRollout()
	AddTerminalVisit()
	SetTreeSize(size int)
	Complete() SearchMetric
}

type collector struct {
	cutoff           int
	exploration      float64
	startTime        time.Time
	rollouts         atomic.Int32
	decisiveRollouts atomic.Int32
	terminalVisits   atomic.Int32
	treeSize         atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(cutoff int, exploration float64) {
	m.startTime = time.Now()
	m.cutoff = cutoff
	m.exploration = exploration
	m.rollouts.Store(0)
	m.decisiveRollouts.Store(0)
	m.terminalVisits.Store(0)
	m.treeSize.Store(0)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddDecisiveRollout() {
	m.decisiveRollouts.Add(1)
}

func (m *collector) AddTerminalVisit() {
	m.terminalVisits.Add(1)
}

func (m *collector) SetTreeSize(size int) {
	m.treeSize.Store(int32(size))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:         time.Since(m.startTime),
		Rollouts:         int(m.rollouts.Load()),
		DecisiveRollouts: int(m.decisiveRollouts.Load()),
		TerminalVisits:   int(m.terminalVisits.Load()),
		TreeSize:         int(m.treeSize.Load()),
		Cutoff:           m.cutoff,
		Exploration:      m.exploration,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(cutoff int, exploration float64) {}
func (m *dummyCollector) AddRollout()                           {}
func (m *dummyCollector) AddDecisiveRollout()                   {}
func (m *dummyCollector) AddTerminalVisit()                     {}
func (m *dummyCollector) SetTreeSize(size int)                  {}
func (m *dummyCollector) Complete() SearchMetric                { return SearchMetric{} }
