package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/star/asteroidwatch/internal/api"
	"github.com/star/asteroidwatch/internal/app"
	"github.com/star/asteroidwatch/internal/credential"
	"github.com/star/asteroidwatch/internal/model"
	"github.com/star/asteroidwatch/internal/session"
	"github.com/star/asteroidwatch/internal/signin"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asteroidwatch: %v\n", err)
		os.Exit(1)
	}

	log, err := openLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asteroidwatch: opening log: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client := api.NewClient(
		cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.RequestTimeoutSec)*time.Second,
		log,
	)

	store := credential.NewStore()
	provider := signin.New(store, cfg.SignIn.RememberCredential, log)
	mgr := session.NewManager(client, provider, log)

	program := tea.NewProgram(
		app.New(client, mgr, provider, log),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "asteroidwatch: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes diagnostics to a file; the terminal UI owns stdout.
func openLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	return cfg.Build()
}
