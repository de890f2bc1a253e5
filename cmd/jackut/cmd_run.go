package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jackut/internal/scenario"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var listOps bool
	cmd := &cobra.Command{
		Use:   "run [file|dir...]",
		Short: "Run YAML acceptance scenarios",
		Long: `Runs every scenario in order against one system instance, so a later script
can load what an earlier one saved. Directories contribute their .yaml files in
lexical order. Exits non-zero when any step fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listOps {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(scenario.Operations(), "\n"))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("no scenario files given")
			}
			return runScenarios(cmd, opts, args)
		},
	}
	cmd.Flags().BoolVar(&listOps, "list-ops", false, "print the operations a step may use and exit")
	return cmd
}

func runScenarios(cmd *cobra.Command, opts *rootOptions, args []string) error {
	files, err := scenario.Expand(args)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer e.close()

	runner := scenario.NewRunner(e.facade, e.log)
	out := cmd.OutOrStdout()
	failed := 0
	for _, file := range files {
		s, err := scenario.LoadFile(file)
		if err != nil {
			return err
		}
		res := runner.Run(cmd.Context(), s)
		if res.Passed() {
			fmt.Fprintf(out, "PASS %s (%d steps, %dms)\n", res.Name, res.Steps, res.DurationMs)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s (%d of %d steps failed)\n", res.Name, len(res.Failures), res.Steps)
		for _, f := range res.Failures {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(files))
	}
	return nil
}
