package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/parser"
)

// Format selects the front end used to turn a file into a program.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatSource Format = "source"
	FormatTree   Format = "tree"
)

// IsValid reports whether the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatAuto, FormatSource, FormatTree:
		return true
	default:
		return false
	}
}

// ParseFormat validates a --format value. The empty string means auto.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	if f == "" {
		return FormatAuto, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("driver: unknown format %q (want auto, source or tree)", value)
	}
	return f, nil
}

// DetectFormat picks a front end from the file extension: .yml, .yaml and
// .json hold program trees, anything else is Mini-Python source.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
		return FormatTree
	default:
		return FormatSource
	}
}

// Load reads path and produces a validated program.
func Load(path string, format Format) (*ast.Program, error) {
	if path == "" {
		return nil, fmt.Errorf("driver: empty path")
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("driver: unknown format %q", format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}

	switch format {
	case FormatTree:
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return DecodeProgramJSON(data)
		}
		return DecodeProgram(data)
	default:
		return ParseSource(data)
	}
}

// ParseSource runs the Mini-Python front end over source.
func ParseSource(source []byte) (*ast.Program, error) {
	mp, err := parser.NewModuleParser()
	if err != nil {
		return nil, err
	}
	defer mp.Close()
	return mp.ParseProgram(source)
}
