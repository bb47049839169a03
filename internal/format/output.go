package format

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// Formats lists the accepted values of Write's format argument.
var Formats = []string{"json", "edn"}

// Write encodes v to w as json (the default) or edn, followed by a newline.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s (want %s)", format, strings.Join(Formats, "|"))
	}
}

// WriteJSON writes strict JSON. HTML characters in node titles are left as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
