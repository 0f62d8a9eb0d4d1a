package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mnk/experiments/metrics"
	"mnk/game"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent asks the agent server at url for every move.
func NewRemoteAgent(url string, timeout time.Duration) Agent {
	return &remoteAgent{
		url:    strings.TrimSuffix(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (a *remoteAgent) Name() string {
	return "remote(" + a.url + ")"
}

func (a *remoteAgent) FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	body, err := json.Marshal(MoveRequest{Board: b.Rows(), WinLength: b.WinLength()})
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}

	resp, err := a.client.Post(a.url+"/findmove", "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("request move from %s: %w", a.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		out, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(out, &errResp) == nil && errResp.Code != "" {
			return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("agent at %s returned %d %s: %s", a.url, resp.StatusCode, errResp.Code, errResp.Error)
		}
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("agent at %s returned status %d: %s", a.url, resp.StatusCode, out)
	}

	var moveResp MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&moveResp); err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("decode move from %s: %w", a.url, err)
	}
	return moveResp.Move, moveResp.Metric, nil
}
