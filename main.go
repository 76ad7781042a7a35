package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mikaelliljedahl/flowlang/codegen"
	"github.com/mikaelliljedahl/flowlang/config"
	"github.com/mikaelliljedahl/flowlang/diag"
	"github.com/mikaelliljedahl/flowlang/driver"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:           "flowlang",
		Short:         "The FlowLang to C# compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newReplCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newBuildCommand() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "build <file.flow>",
		Short: "Compile a FlowLang file to C#",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBuild(args[0], outputPath)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (defaults to flowlang.yaml's output, else stdout)")

	return cmd
}

func runBuild(path string, outputOverride string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(filepath.Dir(path))
	if err != nil {
		return err
	}

	unit, err := driver.Compile(string(source), codegen.Options{Namespace: cfg.Namespace, Indent: cfg.Indent})
	reportDiagnostics(unit.Diagnostics)
	if err != nil {
		return err
	}

	output := outputOverride
	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		fmt.Println(unit.Source)
		return nil
	}

	return os.WriteFile(output, []byte(unit.Source+"\n"), 0o644)
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.flow>",
		Short: "Report diagnostics without generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			diagnostics, err := driver.Check(string(source))
			if err != nil {
				return err
			}
			reportDiagnostics(diagnostics)
			if diag.HasErrors(diagnostics) {
				return driver.ErrDiagnostics
			}
			return nil
		},
	}
}

func reportDiagnostics(diagnostics []diag.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
}

func reportError(err error) {
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, err := range errs.Unwrap() {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
