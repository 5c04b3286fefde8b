package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher/agent"
)

var _ agent.Agent = (*RemoteAgent)(nil)

// RemoteAgent asks an agent server for moves. A rollout budget without a
// time limit turns the server's time limit off; leaving both zero keeps the
// server's budget.
type RemoteAgent struct {
	URL         string
	Client      *http.Client
	MaxRollouts int
	TimeLimit   time.Duration
}

func NewRemoteAgent(url string) *RemoteAgent {
	return &RemoteAgent{URL: url, Client: &http.Client{Timeout: time.Minute}}
}

// FindMove encodes the current position in JSON and posts it to /findmove on the agent side.
func (a *RemoteAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric, error) {
	body, err := json.Marshal(a.request(state))
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.Client.Post(a.URL+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var found agent.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to decode response: %w", err)
	}
	metric := metrics.SearchMetric{
		Duration: time.Duration(found.DurationMs) * time.Millisecond,
		Rollouts: found.Rollouts,
	}
	if !found.Found {
		return game.NoMove, metric, nil
	}

	move, err := state.ParseMove(found.Move)
	if err != nil {
		return game.NoMove, metric, fmt.Errorf("agent answered an invalid move: %w", err)
	}
	return move, metric, nil
}

func (a *RemoteAgent) request(state *game.State) agent.FindMoveRequest {
	request := agent.FindMoveRequest{
		FEN:         state.FEN(),
		MaxRollouts: a.MaxRollouts,
		TimeLimitMs: a.TimeLimit.Milliseconds(),
	}
	if a.TimeLimit > 0 {
		request.TimeLimitMs = max(request.TimeLimitMs, 1)
	}
	if a.TimeLimit > 0 || a.MaxRollouts > 0 {
		useTimeLimit := a.TimeLimit > 0
		request.UseTimeLimit = &useTimeLimit
	}
	return request
}
