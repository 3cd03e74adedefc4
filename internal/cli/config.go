package cli

import (
	"fmt"
	"strings"

	"github.com/sdejongh/imgsweep/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the imgsweep configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exclude: %s\n", strings.Join(cfg.Scan.Exclude, ", "))
			fmt.Fprintf(out, "On Collision: %s\n", cfg.Remove.OnCollision)
			fmt.Fprintf(out, "Continue On Error: %v\n", cfg.Remove.ContinueOnError)
			fmt.Fprintf(out, "Quality: %d\n", cfg.Resize.Quality)
			fmt.Fprintf(out, "PNG Compression: %s\n", cfg.Resize.PNGCompression)
			fmt.Fprintf(out, "Interpolation: %s\n", cfg.Resize.Interpolation)
			fmt.Fprintf(out, "Chain Dimensions: %v\n", cfg.Resize.ChainDimensions)
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List environment variable overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.EnvUsage()
		},
	}
}
