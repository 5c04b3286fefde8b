package agent

import (
	"math"

	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	searcher    searcher.Searcher
	cfg         searcher.Config
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play. Instead of the best
// move it samples a root move with probability proportional to
// visits^(1/temperature).
func NewTrainingAgent(s searcher.Searcher, cfg searcher.Config, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &trainingAgent{
		searcher:    s,
		cfg:         cfg,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric, error) {
	result := search(a.searcher, state, a.cfg)
	if !result.Found() {
		return game.NoMove, result.Metric, nil
	}
	policy := adjustTemperature(result.Stats, a.temperature)
	return sample(policy, result.Stats, a.rng.Float64()), result.Metric, nil
}

// adjustTemperature turns visit counts into move probabilities.
func adjustTemperature(stats []searcher.MoveStat, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(stats))
	for i, stat := range stats {
		policy[i] = math.Pow(float64(stat.Visits), exponent)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, stats []searcher.MoveStat, sampled float64) game.Move {
	cumulative := 0.0
	last := game.NoMove
	for i, prob := range policy {
		if prob == 0 {
			continue
		}
		last = stats[i].Move
		cumulative += prob
		if sampled < cumulative {
			return last
		}
	}
	return last // Fallback in case of rounding errors
}
