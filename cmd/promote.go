package cmd

import (
	"fmt"
	"strings"

	"goldenapi/internal/snapshot"
	"goldenapi/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	promoteStorePath string
	promoteTest      string
	promoteDryRun    bool
	promoteAll       bool
)

// promoteCmd represents the promote command
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Copy processed responses into expected baselines",
	Long: `Promote copies processed artifacts into <store>/expected for every baseline
that is missing or empty. Check the processed output before promoting it.

With --all, existing baselines are overwritten too, which accepts every
current difference as the new expected output.

Example usage:
  goldenapi promote --store store
  goldenapi promote --store store --test OneVisitorTwoVisits --dry-run`,
	RunE: runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().StringVar(&promoteStorePath, "store", "store", "Directory holding processed/ and expected/")
	promoteCmd.Flags().StringVar(&promoteTest, "test", "", "Only promote artifacts of this suite (with or without the test_ prefix)")
	promoteCmd.Flags().BoolVar(&promoteDryRun, "dry-run", false, "Print what would be promoted without writing")
	promoteCmd.Flags().BoolVar(&promoteAll, "all", false, "Also overwrite existing baselines")
}

func runPromote(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logging.LevelWarn, cmd.ErrOrStderr())

	store, err := snapshot.NewStore(promoteStorePath)
	if err != nil {
		return err
	}

	names, err := promotable(store, promoteTest, promoteAll)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "Nothing to promote in %s\n", store.Root())
		return nil
	}

	for _, name := range names {
		if promoteDryRun {
			fmt.Fprintf(out, "would promote %s\n", name)
			continue
		}
		if err := store.Promote(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ promoted %s\n", name)
	}
	if promoteDryRun {
		fmt.Fprintf(out, "%d artifact(s) would be promoted\n", len(names))
	} else {
		fmt.Fprintf(out, "%d artifact(s) promoted into %s\n", len(names), store.ExpectedDirPath())
	}
	return nil
}

// promotable lists processed artifacts whose baseline is absent or blank,
// or every processed artifact when all is set.
func promotable(store *snapshot.Store, test string, all bool) ([]string, error) {
	prefix := ""
	if test != "" {
		if !strings.HasPrefix(test, "test_") {
			test = "test_" + test
		}
		prefix = test
	}

	processed, err := store.ListProcessed(prefix)
	if err != nil {
		return nil, err
	}
	expected, err := store.ListExpected(prefix)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(expected))
	for _, name := range expected {
		existing[name] = true
	}

	var names []string
	for _, name := range processed {
		if test != "" && !strings.HasPrefix(name, test+snapshot.Separator) && !strings.HasPrefix(name, test+"_") {
			continue
		}
		if !all && existing[name] {
			content, ok, err := store.ReadExpected(name)
			if err != nil {
				return nil, err
			}
			if ok && strings.TrimSpace(content) != "" {
				continue
			}
		}
		names = append(names, name)
	}
	return names, nil
}
