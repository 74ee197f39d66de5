package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/torus-snake/input"
	"github.com/hoshinonyaruko/torus-snake/render"
	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// Commander accepts session commands; *session.Loop implements it.
type Commander interface {
	Send(cmd session.Command) bool
}

// ScoreStore is the read side of the score history.
type ScoreStore interface {
	HighScore() (int, error)
	Recent(limit int) ([]structs.GameRecord, error)
}

// Latest holds the most recent snapshot for the HTTP handlers. It is a
// session.Renderer.
type Latest struct {
	mu   sync.RWMutex
	snap structs.Snapshot
	ok   bool
}

func (l *Latest) Render(snap structs.Snapshot) error {
	l.mu.Lock()
	l.snap, l.ok = snap, true
	l.mu.Unlock()
	return nil
}

// Get returns the latest snapshot, false before the first frame.
func (l *Latest) Get() (structs.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap, l.ok
}

func UpdateDirection(buf *input.Buffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")

		// 验证是否提供了必要的查询参数
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}

		intent, err := input.ParseIntent(newDirection)
		if err == nil {
			err = buf.SubmitIntent(intent)
		}
		if err != nil {
			code := http.StatusBadRequest
			if !errors.Is(err, structs.ErrInvalidDirection) && !errors.Is(err, input.ErrInvalidChord) {
				code = http.StatusInternalServerError
			}
			c.JSON(code, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully", "intent": intent.String()})
	}
}

func Reset(cmd Commander) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cmd.Send(session.CmdReset) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Command queue full, try again"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reset queued"})
	}
}

func State(latest *Latest) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := latest.Get()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No frame yet"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func RenderMapHandler(latest *Latest, r *render.PNG) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := latest.Get()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No frame yet"})
			return
		}
		var buf bytes.Buffer
		if err := r.Encode(&buf, snap); err != nil {
			log.Err(err).Msg("encode png")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func Scores(store ScoreStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1..100"})
			return
		}
		best, err := store.HighScore()
		if err != nil {
			log.Err(err).Msg("high score")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read scores"})
			return
		}
		games, err := store.Recent(limit)
		if err != nil {
			log.Err(err).Msg("recent games")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read scores"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"high_score": best, "games": games})
	}
}

// Deps are the pieces the router needs. Store and Hub may be nil.
type Deps struct {
	Input    *input.Buffer
	Commands Commander
	Latest   *Latest
	Renderer *render.PNG
	Store    ScoreStore
	Hub      *Hub
}

// NewRouter registers every route on a fresh engine.
func NewRouter(d Deps, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(d.Input))
	router.GET("/reset", Reset(d.Commands))
	router.GET("/state", State(d.Latest))
	// 渲染函数 直接返回 png
	router.GET("/render-map", RenderMapHandler(d.Latest, d.Renderer))
	if d.Store != nil {
		router.GET("/scores", Scores(d.Store))
	}
	if d.Hub != nil {
		router.GET("/ws", d.Hub.Handler())
	}
	return router
}
