package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pthm/hxtag/internal/termview"
)

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the configured tags in the terminal",
		Long:  `Render the configured tags in the terminal. Tab moves focus, Enter activates, Backspace and Delete dismiss, mouse clicks work too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := flags.load(cmd)
			if err != nil {
				return err
			}
			tags, err := buildTags(cfg.Tags, log)
			if err != nil {
				return err
			}

			log.Debug("launching preview")
			p := tea.NewProgram(
				termview.NewModel(tags, termview.DefaultResolver()),
				tea.WithMouseCellMotion(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				log.Error(err, "preview failed")
				return fmt.Errorf("preview: %w", err)
			}
			return nil
		},
	}

	return cmd
}
