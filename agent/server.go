package agent

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"mnk/experiments/metrics"
	"mnk/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type MoveRequest struct {
	Board     []string `json:"board" binding:"required,min=1"`
	WinLength int      `json:"win_length" binding:"required,gte=1"`
}

type MoveResponse struct {
	Move   game.Move            `json:"move"`
	Metric metrics.SearchMetric `json:"metric"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Server answers move requests with a single agent. Requests are served one
// at a time since agents keep per-instance state such as a random source.
type Server struct {
	agent Agent
	mu    sync.Mutex
}

func NewServer(a Agent) *Server {
	return &Server{agent: a}
}

// Router serves POST /findmove and GET /health.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"agent": s.agent.Name()})
	})
	r.POST("/findmove", s.handleFindMove)
	return r
}

func (s *Server) handleFindMove(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	b, err := game.ParseBoard(req.Board, req.WinLength)
	if err != nil {
		code := "INVALID_BOARD"
		if errors.Is(err, game.ErrInvalidParity) {
			code = "INVALID_PARITY"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	if outcome := b.Outcome(); outcome.IsTerminal() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "game is over: " + outcome.String(), Code: "GAME_OVER"})
		return
	}

	s.mu.Lock()
	move, metric, err := s.agent.FindMove(b)
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("board", b.String()).Msg("agent failed to find a move")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "SEARCH_FAILED"})
		return
	}

	log.Info().
		Str("board", b.String()).
		Stringer("move", move).
		Int("nodes", metric.Nodes).
		Msg("served move")
	c.JSON(http.StatusOK, MoveResponse{Move: move, Metric: metric})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
