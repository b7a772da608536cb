package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizterm/internal/store"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the locally stored session",
	Long: "Removes the persisted session snapshot: principal, questions, answers,\n" +
		"remaining time, and submission state. The next run starts at sign-in.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			fmt.Print("Clear the stored session? Unsubmitted answers will be lost. [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.SnapshotRepo().Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Session cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}
