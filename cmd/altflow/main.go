package main

import (
	"os"
	"path/filepath"
	"strings"

	"altflow/internal/cli"
	"altflow/internal/debug"
)

func isOutlineFile(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".md", ".markdown", ".txt", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// rewriteDirectFileArgs turns `altflow [flags] notes.md` into `altflow [flags] tui notes.md`
// so an outline named like a subcommand still opens.
func rewriteDirectFileArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{
		"--format":     true,
		"--root-label": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isOutlineFile(argv[i+1]) {
				return insertAt(argv, i+1, "tui")
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isOutlineFile(a) {
			return insertAt(argv, i, "tui")
		}
		return argv
	}
	return argv
}

func insertAt(argv []string, i int, words ...string) []string {
	out := make([]string, 0, len(argv)+len(words))
	out = append(out, argv[:i]...)
	out = append(out, words...)
	return append(out, argv[i:]...)
}

func main() {
	os.Args = rewriteDirectFileArgs(os.Args)

	cmd := cli.NewRootCmd()
	err := cmd.Execute()
	debug.Close()
	if err != nil {
		os.Exit(1)
	}
}
