package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-mukbang/internal/audio"
	"github.com/vovakirdan/fruit-mukbang/internal/bridge"
	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/replay"
	"github.com/vovakirdan/fruit-mukbang/internal/storage"
)

var (
	flagAddr       string
	flagRecord     string
	flagSceneEvery int
	flagServeSound bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket EventBridge",
	Long: `Run the engine headless behind a websocket bridge. A tracking service
connects to /ws and streams update_data, spawn_fruit, spawn_banana, clear
and resize messages; every client receives eaten events and periodic
scene snapshots.

Examples:
  mukbang serve                               # Listen on :5000 at 60 fps
  mukbang serve --addr 127.0.0.1:5000 --fps 30
  mukbang serve --record session.jsonl.zst    # Record inbound messages for replay
  mukbang serve --scene-every -1              # Eaten events only

Health check:
  curl localhost:5000/healthz`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":5000", "Listen address (host:port)")
	serveCmd.Flags().StringVar(&flagRecord, "record", "", "Record inbound messages to a zstd JSONL file")
	serveCmd.Flags().IntVar(&flagSceneEvery, "scene-every", bridge.DefaultSceneEvery, "Broadcast a scene every n ticks (negative disables)")
	serveCmd.Flags().BoolVar(&flagServeSound, "sound", false, "Play cues on the server's speaker")
	serveCmd.Flags().Float64Var(&flagVolume, "volume", 0.6, "Cue volume (0-1)")
}

func runServe(_ *cobra.Command, _ []string) {
	if err := serve(loadConfig()); err != nil {
		fail("%v", err)
	}
}

func serve(cfg config.EngineConfig) error {
	logger := newLogger("mukbang")

	bridgeOpts := bridge.Options{
		Logger:     logger.WithPrefix("bridge"),
		SceneEvery: flagSceneEvery,
	}
	if flagRecord != "" {
		rec, err := replay.Create(flagRecord)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("closing recording", "error", err)
			}
			logger.Info("recording saved", "path", flagRecord, "messages", rec.Len())
		}()
		bridgeOpts.Tap = rec
	}

	// The bridge and the engine point at each other; the engine exists
	// before the listener accepts its first client.
	var eng *engine.Engine
	srv := bridge.NewServer(bridge.SubmitterFunc(func(cmd engine.Command) bool {
		return eng.Submit(cmd)
	}), bridgeOpts)

	sinks := engine.MultiSink{srv}
	if store := openJournal(logger); store != nil {
		defer store.Close()
		journal := storage.NewJournal(store, logger.WithPrefix("journal"))
		logger.Info("journal session", "session", journal.Session())
		sinks = append(sinks, journal)
	}
	if flagServeSound {
		player := audio.NewPlayer(flagVolume, logger.WithPrefix("audio"))
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			defer player.Close()
			sinks = append(sinks, player)
		}
	}

	eng = engine.New(cfg, engine.Options{
		Logger:   logger.WithPrefix("engine"),
		Sink:     sinks,
		Renderer: srv,
		Seed:     uint64(flagSeed),
	})

	httpSrv := &http.Server{
		Addr:              flagAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("bridge listening", "addr", flagAddr, "ws", "/ws")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			stop()
		}
	}()

	_ = eng.Run(ctx, flagFPS)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("bridge shutdown", "error", err)
	}

	select {
	case err := <-listenErr:
		return fmt.Errorf("bridge: %w", err)
	default:
	}
	logger.Info("bridge stopped", "score", eng.State().Score)
	return nil
}
