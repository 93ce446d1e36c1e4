package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"resym/internal/app"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <symbol-file>",
		Short: "Validate and summarize a symbol-table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runInspect(ctx context.Context, path string) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{SymbolFile: path})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d entries\n", path, result.Entries)
	resTypes := make([]string, 0, len(result.ByType))
	for resType := range result.ByType {
		resTypes = append(resTypes, resType)
	}
	sort.Strings(resTypes)
	for _, resType := range resTypes {
		fmt.Printf("  %-12s %d\n", resType, result.ByType[resType])
	}
	return nil
}
