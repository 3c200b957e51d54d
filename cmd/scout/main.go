// Command scout is the candidate-search TUI client.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhoward/scout/internal/config"
	"github.com/nhoward/scout/internal/history"
	"github.com/nhoward/scout/internal/logging"
	"github.com/nhoward/scout/internal/reactor"
	"github.com/nhoward/scout/internal/searchclient"
	"github.com/nhoward/scout/internal/ui"
)

func main() {
	link := flag.String("link", "", "restore search state from a share link query string")
	flag.Parse()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Recent-search history; the client works fine without persistence.
	var hist *history.Store
	if cfg.History.Enabled {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			dbPath := filepath.Join(homeDir, ".scout", "scout.db")
			os.MkdirAll(filepath.Dir(dbPath), 0755)
			hist, err = history.Open(dbPath)
			if err != nil {
				logging.Warn("history disabled", "err", err)
				hist = nil
			}
		}
	}
	if hist != nil {
		defer hist.Close()
	}

	client := searchclient.New(cfg.Search.Endpoint, cfg.Search.APIToken, cfg.Timeout())

	// The program pointer is set below; the reactor only pushes locations
	// once the UI is running.
	var program *tea.Program

	rcfg := reactor.Config{
		Client:         client,
		MinQueryLength: cfg.Search.MinQueryLength,
		ChipLimit:      cfg.UI.ChipLimit,
		PushLocation: func(queryString string) {
			logging.Debug("location updated", "params", queryString)
			if program != nil {
				program.Send(ui.LocationChanged{QueryString: queryString})
			}
		},
	}
	if hist != nil {
		rcfg.History = hist
	}
	r := reactor.New(rcfg)

	app := ui.NewApp(ctx, r, ui.Options{
		DebounceDelay:  cfg.DebounceDelay(),
		MinQueryLength: cfg.Search.MinQueryLength,
		ShowScores:     cfg.UI.ShowScores,
	})
	program = tea.NewProgram(app, tea.WithAltScreen())

	// Reproduce state from an externally supplied share link. The restore
	// runs with updateURL=false so it cannot feed back into the location.
	if *link != "" {
		if err := r.RestoreFromLink(ctx, *link); err != nil {
			logging.Error("link restore failed", "err", err)
		}
	}

	if _, err := program.Run(); err != nil {
		logging.Error("program exited with error", "err", err)
	}

	if hist != nil {
		if err := hist.Prune(cfg.History.Keep); err != nil {
			logging.Warn("history prune failed", "err", err)
		}
	}
}
