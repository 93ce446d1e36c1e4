package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resym/internal/app"
)

type buildOptions struct {
	Graph   string
	OutRoot string
	Module  string
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build resource rules from a module-graph spec",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Graph, "graph", "", "Module graph spec path")
	cmd.Flags().StringVar(&opts.OutRoot, "out-root", "out", "Root directory for rule outputs")
	cmd.Flags().StringVar(&opts.Module, "module", "", "Build only this module and its dependency closure")

	_ = viper.BindPFlag("graph", cmd.Flags().Lookup("graph"))
	_ = viper.BindPFlag("out_root", cmd.Flags().Lookup("out-root"))
	_ = viper.BindPFlag("module", cmd.Flags().Lookup("module"))

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := newAppService()
	collector := app.NewPackageableCollector()
	result, err := service.BuildGraph(ctx, app.BuildRequest{
		GraphPath: resolveString(cmd, opts.Graph, "graph", "graph"),
		OutRoot:   resolveString(cmd, opts.OutRoot, "out_root", "out-root"),
		Module:    resolveString(cmd, opts.Module, "module", "module"),
	}, collector)
	if err != nil {
		return err
	}
	fmt.Printf("built %d rules, %d cached\n", result.Built, result.Cached)
	return nil
}
