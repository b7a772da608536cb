package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizterm/internal/api"
	"github.com/abhisek/quizterm/internal/app"
	"github.com/abhisek/quizterm/internal/config"
	"github.com/abhisek/quizterm/internal/logger"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/store"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Start or resume the assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTake(cmd)
	},
}

// runTake wires the store, config, logger, API client, and state
// machine together and hands them to the TUI.
func runTake(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "quizterm.log")
	}
	log := logger.Setup(logPath, cfg.Log.Level)

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := api.New(cfg.Service.BaseURL, cfg.TimeoutDuration(0), log)
	machine := session.Restore(st.SnapshotRepo(), log)
	monitor := session.NewMonitor(client.Report, log)

	return app.Run(app.Options{
		Machine: machine,
		Client:  client,
		Monitor: monitor,
		Log:     log,
	})
}
