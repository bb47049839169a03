package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// WriteEDN writes the EDN subset our payloads need: maps with keyword keys, vectors,
// strings, numbers, booleans and nil. Values go through JSON first so struct tags decide
// the key names.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	e := ednEncoder{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednEncoder struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednEncoder) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.vector(t, level)
	case map[string]any:
		e.mapping(t, level)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// sep writes the separator before element i of a collection at level.
func (e *ednEncoder) sep(i, level int) {
	switch {
	case e.pretty:
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level+1))
	case i > 0:
		e.buf.WriteByte(' ')
	}
}

func (e *ednEncoder) close(level int, c byte) {
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level))
	}
	e.buf.WriteByte(c)
}

func (e *ednEncoder) vector(xs []any, level int) {
	e.buf.WriteByte('[')
	if len(xs) == 0 {
		e.buf.WriteByte(']')
		return
	}
	for i, x := range xs {
		e.sep(i, level)
		e.value(x, level+1)
	}
	e.close(level, ']')
}

func (e *ednEncoder) mapping(m map[string]any, level int) {
	e.buf.WriteByte('{')
	if len(m) == 0 {
		e.buf.WriteByte('}')
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		e.sep(i, level)
		e.buf.WriteByte(':')
		e.buf.WriteString(keyword(k))
		e.buf.WriteByte(' ')
		e.value(m[k], level+1)
	}
	e.close(level, '}')
}

func keyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
