package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/offloadcfg/internal/infrastructure/config"
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	OutputPath    string
	Force         bool
	NoInteractive bool
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an offloadcfg.yaml for this machine",
	Long: `Create a harness configuration file. Values given as flags or environment
variables are used as defaults; the interactive form asks for the rest.`,
	Example: `  offloadcfg init
  offloadcfg init --no-interactive --d3d12 --vulkan --compiler /opt/dxc/bin/dxc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInit(cmd, initOpts)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initOpts.OutputPath, "output", "o", defaultConfigFile, "Output file path")
	initCmd.Flags().BoolVar(&initOpts.Force, "force", false, "Overwrite an existing file")
	initCmd.Flags().BoolVar(&initOpts.NoInteractive, "no-interactive", false, "Disable interactive prompts")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, opts InitOptions) error {
	if err := checkOutputPath(opts.OutputPath, opts.Force); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.ApplyOverrides(viper.GetViper())

	if !opts.NoInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.NewConfigLoader().Save(cfg, opts.OutputPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", opts.OutputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'offloadcfg features --explain' to check the derived features.")
	return nil
}

func checkOutputPath(path string, force bool) error {
	if path == "" {
		return errors.New("output path is required")
	}
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return nil
}

func promptConfig(cfg *config.Config) error {
	selected := selectedAPIs(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("GPU APIs to test").
				Options(
					huh.NewOption("DirectX 12", "d3d12").Selected(cfg.APIs.D3D12),
					huh.NewOption("Vulkan", "vulkan").Selected(cfg.APIs.Vulkan),
					huh.NewOption("Metal", "metal").Selected(cfg.APIs.Metal),
				).
				Value(&selected),
			huh.NewConfirm().
				Title("Only use the WARP software adapter for DirectX?").
				Value(&cfg.UseWARP),
			huh.NewConfirm().
				Title("Run clang-dxc tests?").
				Value(&cfg.TestClang),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Path to dxc").
				Description("Leave empty to search the tool directories and PATH").
				Value(&cfg.Compiler),
			huh.NewInput().
				Title("Golden image directory").
				Description("Enables the goldenimage feature when it exists").
				Value(&cfg.GoldenImagesDir),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	applyAPISelection(cfg, selected)
	return nil
}

func selectedAPIs(cfg *config.Config) []string {
	var selected []string
	if cfg.APIs.D3D12 {
		selected = append(selected, "d3d12")
	}
	if cfg.APIs.Vulkan {
		selected = append(selected, "vulkan")
	}
	if cfg.APIs.Metal {
		selected = append(selected, "metal")
	}
	return selected
}

func applyAPISelection(cfg *config.Config, selected []string) {
	cfg.APIs = config.APIConfig{}
	for _, api := range selected {
		switch api {
		case "d3d12":
			cfg.APIs.D3D12 = true
		case "vulkan":
			cfg.APIs.Vulkan = true
		case "metal":
			cfg.APIs.Metal = true
		}
	}
}
