package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/mikaelliljedahl/flowlang/codegen"
	"github.com/mikaelliljedahl/flowlang/driver"
	"github.com/mikaelliljedahl/flowlang/lexer"
	"github.com/mikaelliljedahl/flowlang/parser"
)

var history = filepath.Join(xdg.DataHome, "flowlang", ".flowlang_history")

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively compile FlowLang snippets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPrompt()
		},
	}
}

func runPrompt() error {
	line := liner.NewLiner()
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	session := driver.NewSession()
	for {
		input, err := line.Prompt("> ")
		if err != nil {
			return err
		}
		line.AppendHistory(input)
		evalLine(session, input)
	}
}

// evalLine compiles input as a program and prints the generated C#.
// Input that is a bare expression is parsed and echoed as a tree
// instead. A failing edit keeps the session's last good tree.
func evalLine(session *driver.Session, input string) {
	if _, err := session.Update(input); err == nil {
		unit, err := driver.Compile(input, codegen.Options{})
		reportDiagnostics(unit.Diagnostics)
		if err != nil {
			reportError(err)
			return
		}
		fmt.Println(unit.Source)
		return
	}

	tokens, err := lexer.Lex(input)
	if err != nil {
		reportError(err)
		return
	}
	expr, err := parser.NewParser(tokens).ParseExpr()
	if err != nil {
		reportError(err)
		return
	}
	fmt.Println(expr)
}
