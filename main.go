package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/torus-snake/api"
	"github.com/hoshinonyaruko/torus-snake/audio"
	"github.com/hoshinonyaruko/torus-snake/config"
	"github.com/hoshinonyaruko/torus-snake/input"
	"github.com/hoshinonyaruko/torus-snake/logger"
	"github.com/hoshinonyaruko/torus-snake/memimg"
	"github.com/hoshinonyaruko/torus-snake/render"
	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/sqlite"
	"github.com/hoshinonyaruko/torus-snake/tui"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	headless := flag.Bool("headless", false, "run without the terminal frontend (HTTP only)")
	flag.Parse()

	if err := run(*configPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "torus-snake:", err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool) error {
	// Initialize the configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	closer, err := logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer closer.Close()

	if err := EnsureFoldersExist(cfg.SkinsDir, filepath.Dir(cfg.DBPath)); err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("score store: %w", err)
	}
	defer store.Close()

	buf := input.NewBuffer()
	sess, err := session.New(cfg.Session(), buf)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	clock := session.NewTickerClock(cfg.TickRate)
	defer clock.Stop()
	loop := session.NewLoop(sess, clock, logger.Component("loop"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 载入皮肤到内存，并热更新
	skins := memimg.NewSkins(cfg.Blocksize)
	if err := skins.Load(cfg.SkinsDir); err != nil {
		log.Err(err).Str("dir", cfg.SkinsDir).Msg("load skins")
	}
	go func() {
		if err := skins.Watch(ctx, cfg.SkinsDir); err != nil {
			log.Err(err).Msg("skin watcher stopped")
		}
	}()
	go func() {
		err := config.Watch(ctx, configPath, func(c *config.AppConfig) {
			clock.SetRate(c.TickRate)
			logger.SetLevel(c.LogLevel)
			log.Info().Int("tick_rate", c.TickRate).Str("log_level", c.LogLevel).Msg("config reloaded")
		})
		if err != nil {
			log.Err(err).Msg("config watcher stopped")
		}
	}()

	latest := &api.Latest{}
	hub := api.NewHub()
	defer hub.Close()
	loop.AddRenderer(latest)
	loop.AddRenderer(hub)
	loop.AddListener(store)

	if cfg.Sound {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			// Non-fatal, game can run without sound
			log.Warn().Err(err).Msg("audio disabled")
		} else {
			defer player.Close()
			loop.AddListener(player)
		}
	}

	if cfg.Port != "" {
		gin.SetMode(gin.ReleaseMode)
		router := api.NewRouter(api.Deps{
			Input:    buf,
			Commands: loop,
			Latest:   latest,
			Renderer: render.New(cfg.Blocksize, skins),
			Store:    store,
			Hub:      hub,
		}, logger.Gin())
		srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Err(err).Str("port", cfg.Port).Msg("http server")
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		log.Info().Str("port", cfg.Port).Msg("http listening")
	}

	if !headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer screen.Fini()
		// 崩溃时先恢复终端再抛出
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				panic(r)
			}
		}()

		frontend := tui.New(screen)
		if best, err := store.HighScore(); err == nil {
			frontend.SetHighScore(best)
		}
		loop.AddRenderer(frontend)
		loop.AddListener(frontend)
		go frontend.RunInput(ctx, buf, loop, stop)
	}

	log.Info().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("tick_rate", cfg.TickRate).
		Bool("headless", headless).
		Msg("game started")
	return loop.Run(ctx)
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) error {
	for _, folder := range folders {
		if folder == "" || folder == "." {
			continue
		}
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				return fmt.Errorf("create %s directory: %w", folder, err)
			}
			log.Info().Str("dir", folder).Msg("created directory")
		}
	}
	return nil
}
