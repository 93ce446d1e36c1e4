package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resym/internal/app"
)

type compileOptions struct {
	VerifyXMLAttrs bool
}

// newCompileCommand is the isolated driver entry point: three positional
// file arguments, no other inputs, no state across invocations. Wrong
// argument counts and every compilation failure leave nothing at the
// output path.
func newCompileCommand() *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <resource-pairs-file> <dep-symbols-file> <output-file>",
		Short: "Compile a resource tree into a symbol-table file",
		Long: "Compile reads a file of 'logicalPath absolutePath' resource pairs and a file\n" +
			"of dependency symbol-file paths, builds the symbol table, verifies every\n" +
			"resource reference, and writes the sorted table to the output file.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.VerifyXMLAttrs, "verify-xml-attrs", false, "Verify res-auto XML attribute references")
	_ = viper.BindPFlag("verify_xml_attrs", cmd.Flags().Lookup("verify-xml-attrs"))

	return cmd
}

func runCompile(ctx context.Context, cmd *cobra.Command, opts compileOptions, args []string) error {
	service := newAppService()
	result, err := service.Compile(ctx, app.CompileRequest{
		ResourcePairsFile: args[0],
		DepSymbolsFile:    args[1],
		OutputFile:        args[2],
		VerifyXMLAttrs:    resolveBool(cmd, opts.VerifyXMLAttrs, "verify_xml_attrs", "verify-xml-attrs"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d symbols: %s\n", result.Symbols, result.OutputFile)
	return nil
}
