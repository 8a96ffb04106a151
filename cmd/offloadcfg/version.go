package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/version"
)

var versionJSON bool

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of offloadcfg",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeVersion(cmd.OutOrStdout(), version.Get(), versionJSON)
	},
}

func writeVersion(w io.Writer, info version.Info, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	if _, err := fmt.Fprintln(w, info.Full()); err != nil {
		return err
	}
	if !info.IsRelease() {
		// CheckCompatibility accepts any "requires" for non-semver builds
		_, err := fmt.Fprintln(w, "development build: requires constraints are not enforced")
		return err
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}
