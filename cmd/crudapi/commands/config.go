package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/crudapi/pkg/config"
	"github.com/openfroyo/crudapi/pkg/telemetry"
)

// effectiveConfig is what the config command prints.
type effectiveConfig struct {
	config.Config `yaml:",inline"`
	Telemetry     *telemetry.Config `yaml:"telemetry"`
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration assembled from the environment and the
telemetry file as YAML. The database password is redacted.`,
		Example: `  crudapi config --config telemetry.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, telCfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(effectiveConfig{Config: cfg.Redacted(), Telemetry: telCfg}); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}

	return cmd
}
