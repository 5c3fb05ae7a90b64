package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/hxtag/internal/config"
	"github.com/pthm/hxtag/internal/logging"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "hxtag",
		Short:         "hxtag serves and previews interactive tag components",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a yaml or toml config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load reads the configuration and builds the logger for a command run.
func (f *rootFlags) load(cmd *cobra.Command) (config.Config, *logging.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	level := cfg.Log.Level
	if f.verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{
		Level:         level,
		HumanReadable: cfg.Log.Human,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
