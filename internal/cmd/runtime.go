package cmd

import (
	"fmt"
	"strings"

	"github.com/salmonumbrella/retoc/internal/config"
	"github.com/spf13/cobra"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func formatConfigLoadError(err error) error {
	return fmt.Errorf("failed to load config: %w", err)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}
