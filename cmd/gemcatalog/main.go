package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/config"
	"github.com/goliatone/go-gem-catalog/pkg/di"
)

// app holds the state shared by every command of one invocation.
type app struct {
	configPath string
	jsonOutput bool

	container *di.Container
}

func (a *app) service() catalog.Service {
	return a.container.Service()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "gemcatalog",
		Short:        "Query and edit the gem catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.container, err = di.NewContainer(cmd.Context(), *cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.container != nil {
				return a.container.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "path to a TOML config file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newSearchCmd(a),
		newMetadataCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newImageCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
