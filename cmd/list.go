package cmd

import (
	"fmt"

	"goldenapi/internal/formatting"
	"goldenapi/internal/registry"
	"goldenapi/internal/surface"
	"goldenapi/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	listDescriptor   string
	listAPI          []string
	listExclude      []string
	listOutputFormat string
	listShowSkipped  bool
	listNoColor      bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the operations a selection would test",
	Long: `List enumerates the operations of the descriptor the same way a test run
does and prints the ones that survive the selection.

The selection is "all" by default, which excludes modules that return
random or environment-dependent data. Naming modules or Module.method ids
with --api selects exactly those.

Example usage:
  goldenapi list --descriptor api.yaml
  goldenapi list --descriptor api.yaml --api Actions --api VisitsSummary.get
  goldenapi list --descriptor api.yaml --exclude Goals --skipped
  goldenapi list --descriptor api.yaml --output json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDescriptor, "descriptor", "", "API descriptor file")
	listCmd.Flags().StringSliceVar(&listAPI, "api", nil, "Modules or Module.method ids to select (default: all)")
	listCmd.Flags().StringSliceVar(&listExclude, "exclude", nil, "Modules or Module.method ids to exclude")
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	listCmd.Flags().BoolVar(&listShowSkipped, "skipped", false, "Also list skipped operations with their reason")
	listCmd.Flags().BoolVar(&listNoColor, "no-color", false, "Disable colored output")

	_ = listCmd.MarkFlagRequired("descriptor")
	_ = listCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveDefault
	})
}

func runList(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logging.LevelWarn, cmd.ErrOrStderr())

	format, err := formatting.ParseOutputFormat(listOutputFormat)
	if err != nil {
		return err
	}

	reg, err := registry.LoadFile(listDescriptor)
	if err != nil {
		return err
	}

	include, exclude := surface.Callable(listAPI)
	exclude = append(exclude, listExclude...)
	sel := surface.Enumerate(reg, include, exclude)

	formatter := formatting.New(formatting.Options{
		Format: format,
		Color:  !listNoColor,
		Output: cmd.OutOrStdout(),
	})
	if err := formatter.FormatOperations(operationRows(sel, listShowSkipped)); err != nil {
		return fmt.Errorf("failed to format operations: %w", err)
	}
	return nil
}

func operationRows(sel surface.Selection, withSkipped bool) []formatting.OperationRow {
	rows := make([]formatting.OperationRow, 0, len(sel.Operations))
	for _, op := range sel.Operations {
		rows = append(rows, formatting.OperationRow{ID: op.ID(), Class: op.Class, Status: "selected"})
	}
	if withSkipped {
		for _, s := range sel.Skipped {
			rows = append(rows, formatting.OperationRow{ID: s.ID, Status: string(s.Reason), Detail: s.Detail})
		}
	}
	return rows
}
