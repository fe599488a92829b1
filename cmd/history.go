package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/socraticlabs/socratic-cli/internal/config"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past test results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := st.Results().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No tests taken yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTEST\tCODE\tSCORE\tCORRECT\tTIME")
		for _, r := range records {
			total := int(r.Duration.Seconds())
			name := r.TestName
			if r.PracticeExam {
				name += " (practice)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%d/%d\t%d:%02d\n",
				r.FinishedAt.Format("2006-01-02"), name, r.TestCode,
				r.Score, r.Correct, r.Total, total/60, total%60)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results to show")
}
