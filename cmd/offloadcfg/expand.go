package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
)

var expandOpts = DefaultCommonOptions()

// expandCmd applies the substitutions to command lines.
var expandCmd = &cobra.Command{
	Use:   "expand [line...]",
	Short: "Apply the tool substitutions to RUN lines",
	Long: `Apply the substitution registry to each argument, or to each line of stdin
when no arguments are given, and print the result.`,
	Example: `  offloadcfg expand '%gpu-exec %t/pipeline.yaml | FileCheck %s'
  grep -h 'RUN:' test/*.test | sed 's/.*RUN: //' | offloadcfg expand`,
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		resp, err := ctx.load(&expandOpts)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return expandLines(cmd.OutOrStdout(), resp.Registry, args)
		}
		return expandStream(cmd.OutOrStdout(), cmd.InOrStdin(), resp.Registry)
	}),
}

func init() {
	expandCmd.Flags().DurationVar(&expandOpts.Timeout, "timeout", expandOpts.Timeout,
		"Timeout for the whole load including the device query (0 to disable)")
	rootCmd.AddCommand(expandCmd)
}

func expandLines(w io.Writer, registry *entities.SubstitutionRegistry, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, registry.Expand(line)); err != nil {
			return err
		}
	}
	return nil
}

func expandStream(w io.Writer, r io.Reader, registry *entities.SubstitutionRegistry) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, registry.Expand(scanner.Text())); err != nil {
			return err
		}
	}
	return scanner.Err()
}
