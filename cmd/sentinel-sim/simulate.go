package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sentinel-sim/internal/admin"
	"sentinel-sim/internal/config"
	"sentinel-sim/internal/logging"
	"sentinel-sim/internal/sim"
	"sentinel-sim/internal/threat"
)

var (
	simPrintOnly   bool
	simTUI         bool
	simConfigPath  string
	simSchemaPath  string
	simLogFile     string
	simCatalogPath string
	simAdminAddr   string
	simSeed        int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time surveillance simulator",
	Long:  "simulate starts the tick loop emitting surveillance contacts and geo threat state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(slog.LevelInfo)
		slog.SetDefault(logger)

		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		catalogPath := simCatalogPath
		if catalogPath == "" {
			catalogPath = cfg.CatalogPath
		}
		var catalog []threat.Origin
		if catalogPath != "" {
			catalog, err = threat.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
		}

		sessionID := os.Getenv("SESSION_ID")
		if sessionID == "" {
			sessionID = "session-" + uuid.New().String()[:8]
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		var seed *rand.Rand
		if simSeed != 0 {
			seed = rand.New(rand.NewSource(simSeed))
		}

		var simulator *sim.Simulator
		var tuiWriter *sim.TUIWriter
		var cw sim.ContactWriter
		var tw sim.ThreatWriter
		if simTUI {
			width, height, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width, height = 100, 40
			}
			tuiWriter = sim.NewTUIWriter(func(id string) {
				if simulator != nil {
					simulator.Neutralize(id)
				}
			}, width, height)
			cw, tw = tuiWriter, tuiWriter
			if simLogFile != "" {
				fw, err := sim.NewFileWriter(simLogFile, simLogFile+".threats")
				if err != nil {
					return err
				}
				defer fw.Close()
				mw := sim.NewMultiWriter([]sim.ContactWriter{tuiWriter, fw}, []sim.ThreatWriter{tuiWriter, fw})
				cw, tw = mw, mw
			}
		} else {
			var cleanup func()
			cw, tw, cleanup, err = newWriters(simPrintOnly, simLogFile)
			if err != nil {
				return err
			}
			defer cleanup()
		}

		simulator = sim.NewSimulator(sessionID, cfg, catalog, cw, tw, seed)

		srv := admin.NewServer(simulator)
		go func() {
			logger.Info("admin UI listening", "addr", simAdminAddr)
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "error", err)
				os.Exit(1)
			}
		}()

		if tuiWriter != nil {
			go func() {
				t := time.NewTicker(250 * time.Millisecond)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-t.C:
						state := simulator.Sweep()
						tuiWriter.SetSweep(state.AngleDeg, len(state.Visible))
					}
				}
			}()
		}

		go simulator.Run(ctx)
		logger.Info("simulation started",
			"session", sessionID,
			"defending", cfg.DefendedPosition.Name,
			"threats", len(simulator.ThreatSnapshot()))

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		if tuiWriter != nil {
			select {
			case <-sigs:
			case <-tuiWriter.Done():
			}
		} else {
			<-sigs
		}

		cancel()
		logger.Info("simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the terminal dashboard instead of row output")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export contact/threat logs (JSONL)")
	simulateCmd.Flags().StringVar(&simCatalogPath, "catalog", "", "Path to a threat origin catalogue YAML (overrides config)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin UI listen address")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed for reproducible sessions (0 = time-based)")
}
