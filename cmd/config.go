package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samsaffron/oatmeal/internal/config"
)

var configFileCmd = &cobra.Command{
	Use:   "config-file",
	Short: "Print a default TOML config file to stdout",
	Long:  `Print the built-in default configuration as TOML, suitable for redirecting into a config file and editing.`,
	RunE:  runConfigFile,
}

func init() {
	rootCmd.AddCommand(configFileCmd)
}

func runConfigFile(cmd *cobra.Command, args []string) error {
	data, err := config.MarshalDefault()
	if err != nil {
		return fmt.Errorf("config-file: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
