package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"altflow/internal/debug"
	"altflow/internal/gesture"
	"altflow/internal/outline"
	"altflow/internal/store"
	"altflow/internal/tui"
	"altflow/internal/watcher"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file>",
		Short: "Open an outline in the interactive TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, args[0])
		},
	}
}

func runTUI(cmd *cobra.Command, app *App, path string) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	home, err := outline.Load(path)
	if err != nil {
		return writeErr(cmd, err)
	}

	sess := gesture.NewSession(home, nil,
		gesture.WithSettings(gesture.Settings{RTL: cfg.RTL, DarkMode: cfg.DarkMode}),
		gesture.WithRootLabel(app.RootLabel),
	)
	defer sess.Close()
	sess.Subscribe(persistSettings(sess))

	opts := tui.Options{
		Name:   filepath.Base(path),
		Reload: func() (*outline.Tree, error) { return outline.Load(path) },
	}
	w, err := watcher.New(path, watcher.WithOnError(func(err error) {
		debug.Log("watch %s: %v", path, err)
	}))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		// The outline still works without live reload.
		debug.Log("watch %s disabled: %v", path, err)
	} else {
		defer w.Stop()
		opts.Watcher = w
	}

	return tui.Run(sess, opts)
}

// persistSettings writes the session settings to config.json whenever they change.
func persistSettings(sess *gesture.Session) func(gesture.Change) {
	return func(c gesture.Change) {
		if c != gesture.ChangeSettings {
			return
		}
		s := sess.Settings()
		if err := store.SaveConfig(&store.Config{RTL: s.RTL, DarkMode: s.DarkMode}); err != nil {
			debug.Log("save settings: %v", err)
		}
	}
}
