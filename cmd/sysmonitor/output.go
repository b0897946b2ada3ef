package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/mattn/go-isatty"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer renders command results in the selected format.
type printer struct {
	out    io.Writer
	format string
	indent bool
}

// newPrinter indents JSON only when out is a terminal, so piped output stays
// one document per line.
func newPrinter(out io.Writer, format string) (*printer, error) {
	switch format {
	case "", formatJSON:
		format = formatJSON
	case formatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q; valid values are json, yaml", format)
	}

	indent := false
	if f, ok := out.(*os.File); ok {
		indent = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &printer{out: out, format: format, indent: indent}, nil
}

func (p *printer) print(v any) error {
	if p.format == formatYAML {
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = p.out.Write(b)

		return err
	}

	enc := json.NewEncoder(p.out)
	if p.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}
