package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizterm/internal/api"
	"github.com/abhisek/quizterm/internal/config"
	"github.com/abhisek/quizterm/internal/logger"
	"github.com/abhisek/quizterm/internal/session"
	"github.com/abhisek/quizterm/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report [access-code]",
	Short: "Fetch the detailed post-quiz report",
	Long: "Fetches the per-question breakdown for a submitted quiz. With no\n" +
		"argument the access code of the locally stored session is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		credential := ""
		if len(args) == 1 {
			credential = args[0]
		} else {
			credential, err = storedCredential(cmd)
			if err != nil {
				return err
			}
		}

		log := logger.Setup(cfg.Log.File, cfg.Log.Level)
		client := api.New(cfg.Service.BaseURL, cfg.TimeoutDuration(0), log)

		report, err := client.Analyze(cmd.Context(), credential)
		if err != nil {
			return err
		}

		if !report.IsSubmitted {
			fmt.Println("This quiz has not been submitted yet.")
			return nil
		}
		fmt.Println(report.Report)
		return nil
	},
}

// storedCredential pulls the access code from the persisted session.
func storedCredential(cmd *cobra.Command) (string, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return "", fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var snap *session.Snapshot
	if snap, err = st.SnapshotRepo().Load(); err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !snap.Complete() {
		return "", fmt.Errorf("no stored session; pass the access code explicitly")
	}
	return snap.Principal.Credential, nil
}
