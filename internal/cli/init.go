package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  "Create the configuration directory and a default config.yaml. An existing file is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return sysError("resolve config directory: %w", err)
			}
			path := filepath.Join(dir, configFileExt)
			written, err := writeConfigIfMissing(path)
			if err != nil {
				return sysError("write config: %w", err)
			}
			a.log.Debug("init", zap.String("config", path), zap.Bool("written", written))
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
