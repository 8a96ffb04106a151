package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/offloadcfg/internal/infrastructure/config"
)

const defaultConfigFile = "offloadcfg.yaml"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "offloadcfg",
	Short: "Derive GPU feature flags and tool substitutions for offload tests",
	Long: `offloadcfg queries the GPU devices available on this machine, derives the
feature flags a test suite can gate on (DirectX, DirectX-Intel, Vulkan-NV, ...)
and binds the tool substitutions (%gpu-exec, FileCheck, ...) the runner applies
to each RUN line.

Settings come from offloadcfg.yaml, then $HOME/.offloadcfg.yaml, environment
variables (OFFLOADCFG_APIS_D3D12, OFFLOADCFG_USE_WARP, ...) and flags, with
later sources taking precedence.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", defaultConfigFile, "harness config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.String("devices-file", "", "read a captured api-query document instead of running the tool")
	flags.Bool("d3d12", false, "enable DirectX 12 devices")
	flags.Bool("metal", false, "enable Metal devices")
	flags.Bool("vulkan", false, "enable Vulkan devices")
	flags.Bool("warp", false, "only use the WARP software adapter (requires --d3d12)")
	flags.Bool("test-clang", false, "enable clang-dxc tests")
	flags.String("compiler", "", "path to the dxc compiler")
	flags.StringSlice("tools-dir", nil, "directories searched for tools before PATH")

	bindFlag(config.KeyDevicesFile, "devices-file")
	bindFlag(config.KeyD3D12, "d3d12")
	bindFlag(config.KeyMetal, "metal")
	bindFlag(config.KeyVulkan, "vulkan")
	bindFlag(config.KeyUseWARP, "warp")
	bindFlag(config.KeyTestClang, "test-clang")
	bindFlag(config.KeyCompiler, "compiler")
	bindFlag(config.KeyToolsDirs, "tools-dir")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// initConfig loads user defaults from $HOME/.offloadcfg.yaml and the environment.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".offloadcfg")

	viper.SetEnvPrefix("OFFLOADCFG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
