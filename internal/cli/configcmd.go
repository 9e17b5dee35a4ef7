package cli

import (
	"github.com/spf13/cobra"

	ocif "github.com/jmsv/ocif-thing"
)

func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the editor configuration as TOML",
		Long:  `Print the effective editor configuration: the defaults, overlaid with --config when given. The output is a valid settings file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return ocif.EncodeConfig(cmd.OutOrStdout(), cfg)
		},
	}
}
