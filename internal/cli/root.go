package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"altflow/internal/format"
	"altflow/internal/outline"
)

type App struct {
	PrettyJSON bool
	Format     string
	// RootLabel is the ancestor title where search stops rebuilding context.
	RootLabel string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "altflow [file]",
		Short:        "Drag, select and search outlines in the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Open an outline (markdown bullets, YAML or JSON) in the interactive TUI
  altflow notes.md

  # Scriptable commands
  altflow tree notes.md
  altflow search notes.md milk
  altflow move notes.md --node n-5 --target n-2 --placement children
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := envOr("ALTFLOW_FILE", "")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return cmd.Help()
			}
			return runTUI(cmd, app, path)
		},
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ALTFLOW_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().StringVar(&app.RootLabel, "root-label", envOr("ALTFLOW_ROOT_LABEL", outline.HomeTitle), "Ancestor title where search results stop adding context")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newSettingsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
