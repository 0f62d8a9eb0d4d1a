package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mnk/game"
	"mnk/searcher"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(NewServer(NewSearchAgent(searcher.NewAlphaBeta(4, searcher.WithMetrics()))).Router())
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body any) (*http.Response, ErrorResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/findmove", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var errResp ErrorResponse
	if resp.StatusCode != http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	}
	return resp, errResp
}

func TestServer(t *testing.T) {
	server := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("finds a winning move", func(t *testing.T) {
		data, err := json.Marshal(MoveRequest{Board: []string{"XX.", ".O.", "..O"}, WinLength: 3})
		require.NoError(t, err)
		resp, err := http.Post(server.URL+"/findmove", "application/json", bytes.NewReader(data))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var moveResp MoveResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&moveResp))
		require.Equal(t, game.NewMove(0, 2), moveResp.Move)
		require.Positive(t, moveResp.Metric.Nodes)
	})

	t.Run("rejects malformed requests", func(t *testing.T) {
		resp, errResp := post(t, server.URL, map[string]any{"board": []string{}})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "INVALID_REQUEST", errResp.Code)
	})

	t.Run("rejects impossible boards", func(t *testing.T) {
		resp, errResp := post(t, server.URL, MoveRequest{Board: []string{"XX.", "X..", "..."}, WinLength: 3})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "INVALID_PARITY", errResp.Code)

		resp, errResp = post(t, server.URL, MoveRequest{Board: []string{"X?.", "...", "..."}, WinLength: 3})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "INVALID_BOARD", errResp.Code)
	})

	t.Run("rejects finished games", func(t *testing.T) {
		resp, errResp := post(t, server.URL, MoveRequest{Board: []string{"XXX", "OO.", "..."}, WinLength: 3})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "GAME_OVER", errResp.Code)
	})
}

func TestRemoteAgent(t *testing.T) {
	server := newTestServer(t)
	remote := NewRemoteAgent(server.URL+"/", time.Second)
	require.Equal(t, "remote("+server.URL+")", remote.Name())

	t.Run("plays the served move", func(t *testing.T) {
		move, metric, err := remote.FindMove(mustParse(t, "OO.,XX.,X.."))
		require.NoError(t, err)
		require.Equal(t, game.NewMove(0, 2), move, "O takes the win before blocking")
		require.Equal(t, string(searcher.AlphaBeta), metric.Algorithm)
	})

	t.Run("reports server errors", func(t *testing.T) {
		_, _, err := remote.FindMove(mustParse(t, "XXX,OO.,..."))
		require.ErrorContains(t, err, "GAME_OVER")
	})

	t.Run("reports unreachable servers", func(t *testing.T) {
		_, _, err := NewRemoteAgent("http://127.0.0.1:1", 100*time.Millisecond).FindMove(mustParse(t, "X..,...,..."))
		require.Error(t, err)
	})
}
