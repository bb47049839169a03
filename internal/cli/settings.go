package cli

import (
	"github.com/spf13/cobra"

	"altflow/internal/store"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the rtl and darkmode preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeSettings(cmd, app, cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <rtl|darkmode> <true|false>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeSettings(cmd, app, cfg)
		},
	})
	return cmd
}

func writeSettings(cmd *cobra.Command, app *App, cfg *store.Config) error {
	path, err := store.ConfigPath()
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{
		"data": cfg,
		"meta": map[string]any{"path": path},
	})
}
