package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Humphrey-He/vanya/configs"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config FILE",
	Short: "Validate a config file without starting anything",
	Long: `Decodes FILE (YAML or JSON, by extension) over the defaults and
validates it. Environment overrides are not applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckConfig,
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	c, err := configs.LoadFromFile(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (server %s, %s store at %s)\n",
		args[0], c.Server.Addr, c.Store.Engine, c.Store.Path)
	return err
}
