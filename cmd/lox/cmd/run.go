package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/arlox/arlox/internal/interp"
	"github.com/spf13/cobra"
)

var stdoutFlag bool

var runCmd = &cobra.Command{
	Use:   "run [file|repl]",
	Short: "Run a lox script, or start the REPL",
	Long: `Execute a lox program from a file, or start an interactive REPL.

Examples:
  # Run a script file
  lox run script.lox

  # Start an interactive REPL
  lox run repl

  # Run a script and also echo its captured output afterward
  # (the flag takes two dashes; a single-dash -stdout is rejected)
  lox run script.lox --stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
	// runScript already reports scanner/parser/runtime errors to stderr
	// itself; suppress cobra's own "Error: ..." + usage re-print of the
	// same error, while still returning it non-nil so Execute()'s caller
	// can exit non-zero.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "echo captured print/println output after running")
}

func runScript(_ *cobra.Command, args []string) error {
	in := interp.New()

	var runErr error
	if args[0] == "repl" {
		if err := runRepl(in); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	} else {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		if err := in.Run(string(content)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			runErr = err
		}
	}

	if stdoutFlag {
		fmt.Println("\n---[Output]---")
		fmt.Printf("%s\n", in.Output())
	}

	return runErr
}

// runRepl implements original_source/rlox/src/application.rs's
// App::run_repl(): read a line, scan+parse+interpret it against the same
// persistent environment, echo and clear the output sink, and stop on a
// line that is exactly "exit". Per SPEC_FULL.md §6.3, partial/unterminated
// input is rejected outright rather than buffered for continuation.
func runRepl(in *interp.Interpreter) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "exit" {
			break
		}

		if err := in.Run(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		// the interpreter already echoed any print/println output as it
		// ran; just add the separating blank line the reference REPL does.
		if in.Output() != "" {
			fmt.Println()
		}
		in.ClearOutput()
	}
	return scanner.Err()
}
