package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sentientlabs/romagate/internal/breaker"
	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/dispatch"
	"github.com/sentientlabs/romagate/internal/engine"
	"github.com/sentientlabs/romagate/internal/engine/roma"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/internal/server"
	"github.com/sentientlabs/romagate/internal/state"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe() error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	provider := cfg.DefaultProvider()
	if _, err := cfg.Credential(provider); err != nil {
		log.Printf("[serve] warning: %v; /analyze will fail until a key is set", err)
	}

	brk := breaker.New(cfg.Breaker.Threshold, cfg.Breaker.Cooldown)
	solver := roma.New(engine.NewClientFactory(brk))
	resolver := resolve.NewTierResolver(cfg)

	opts := []dispatch.Option{}
	if cfg.History.Enabled {
		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath = state.DefaultDBPath()
		}
		db, err := state.Open(dbPath)
		if err != nil {
			log.Printf("[serve] history disabled: %v", err)
		} else {
			defer db.Close()
			opts = append(opts, dispatch.WithRecorder(func(rec dispatch.Record) {
				// Recorder must not block the dispatch path.
				go func() {
					if err := db.RecordSolve(state.SolveRecord{
						ID:       rec.ID,
						Provider: rec.Provider,
						Tier:     string(rec.Tier),
						State:    string(rec.State),
						Duration: rec.Duration,
					}); err != nil {
						log.Printf("[serve] record solve: %v", err)
					}
				}()
			}))
		}
	}

	orch := dispatch.New(resolver, solver, opts...)
	srv := server.New(cfg, orch, resolver, brk)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[serve] listening on %s (default provider: %s)", addr, provider)
	return httpServer.ListenAndServe()
}
