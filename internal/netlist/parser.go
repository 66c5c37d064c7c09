// Package netlist extracts candidate net names from textual netlists.
package netlist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/layoutguide/internal/common"
	"github.com/Veraticus/layoutguide/internal/model"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultExcludedPatterns filter out tokens that are not net names:
// component references (R123), pure numbers and component values (10ohm, 22f, 1h).
var DefaultExcludedPatterns = []string{
	`^[a-zA-Z][0-9]+$`,
	`^[0-9]+$`,
	`^[0-9]+(ohm|f|h)$`,
}

// DefaultSupportedFormats lists the file extensions parsed without a warning.
var DefaultSupportedFormats = []string{".net", ".sp", ".cir", ".txt"}

// Parser turns netlist text into a sorted, deduplicated list of net names.
type Parser struct {
	excluded []*regexp.Regexp
	formats  []string
}

// Option configures a Parser.
type Option func(*parserOptions)

type parserOptions struct {
	excluded []string
	formats  []string
}

// WithExcludedPatterns replaces the default excluded patterns.
func WithExcludedPatterns(patterns []string) Option {
	return func(o *parserOptions) {
		o.excluded = patterns
	}
}

// WithSupportedFormats replaces the default list of known extensions.
func WithSupportedFormats(formats []string) Option {
	return func(o *parserOptions) {
		o.formats = formats
	}
}

// NewParser creates a parser. Excluded patterns must be valid regular expressions;
// they are matched against the whole token, case-insensitively.
func NewParser(opts ...Option) (*Parser, error) {
	o := parserOptions{
		excluded: DefaultExcludedPatterns,
		formats:  DefaultSupportedFormats,
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Parser{
		excluded: make([]*regexp.Regexp, 0, len(o.excluded)),
		formats:  make([]string, 0, len(o.formats)),
	}
	for _, pattern := range o.excluded {
		re, err := compileFullMatch(pattern)
		if err != nil {
			return nil, &common.ConfigurationError{
				Section: "netlist_parser.excluded_patterns",
				Err:     fmt.Errorf("%w %q: %v", common.ErrInvalidPattern, pattern, err),
			}
		}
		p.excluded = append(p.excluded, re)
	}
	for _, format := range o.formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		if !strings.HasPrefix(format, ".") {
			format = "." + format
		}
		p.formats = append(p.formats, format)
	}

	return p, nil
}

// NewParserFromSettings creates a parser honoring configuration overrides.
func NewParserFromSettings(settings model.ParserSettings) (*Parser, error) {
	var opts []Option
	if len(settings.ExcludedPatterns) > 0 {
		opts = append(opts, WithExcludedPatterns(settings.ExcludedPatterns))
	}
	if len(settings.SupportedFormats) > 0 {
		opts = append(opts, WithSupportedFormats(settings.SupportedFormats))
	}
	return NewParser(opts...)
}

// compileFullMatch anchors pattern on both ends. Anchors already present
// are harmless inside the group.
func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)^(?:` + pattern + `)$`)
}

// Parse extracts net names from netlist content.
//
// Data lines start with a digit; the second whitespace-separated token is the
// candidate net name. Blank lines and lines starting with '*' or '#' are skipped.
func (p *Parser) Parse(content string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '*' || line[0] == '#' {
			continue
		}
		if line[0] < '0' || line[0] > '9' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		candidate := fields[1]
		if p.IsExcluded(candidate) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		names = append(names, candidate)
	}

	slices.Sort(names)
	return names
}

// IsExcluded reports whether token matches any excluded pattern.
func (p *Parser) IsExcluded(token string) bool {
	for _, re := range p.excluded {
		if re.MatchString(token) {
			return true
		}
	}
	return false
}

// ParseReader decodes and parses a netlist stream. source names the input in errors.
func (p *Parser) ParseReader(r io.Reader, source string) ([]string, error) {
	// A BOM selects UTF-8 or UTF-16 decoding; without one the bytes pass through
	// untouched so invalid UTF-8 can be reported instead of silently replaced.
	decoder := unicode.BOMOverride(transform.Nop)
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return nil, &common.ParseError{Path: source, Err: fmt.Errorf("%w: %w", common.ErrUnreadableSource, err)}
	}

	if !utf8.Valid(data) {
		line := 1 + bytes.Count(data[:invalidOffset(data)], []byte("\n"))
		return nil, &common.ParseError{Path: source, Line: line, Err: common.ErrInvalidEncoding}
	}

	names := p.Parse(strings.ReplaceAll(string(data), "\r\n", "\n"))
	slog.Debug("Parsed netlist", "source", source, "nets", len(names))
	return names, nil
}

// ParseFile reads and parses the netlist at path.
func (p *Parser) ParseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &common.ParseError{Path: path, Err: common.ErrNetlistNotFound}
		}
		return nil, &common.ParseError{Path: path, Err: fmt.Errorf("%w: %v", common.ErrUnreadableSource, err)}
	}
	defer func() { _ = f.Close() }()

	if !p.ValidateFormat(path) {
		slog.Warn("Unsupported netlist format, attempting generic parsing",
			"path", path,
			"extension", filepath.Ext(path))
	}

	names, err := p.ParseReader(f, path)
	if err != nil {
		return nil, err
	}

	slog.Info("Extracted net names", "path", path, "nets", len(names))
	return names, nil
}

// SupportedFormats returns the known netlist extensions.
func (p *Parser) SupportedFormats() []string {
	return slices.Clone(p.formats)
}

// ValidateFormat reports whether path has a known netlist extension.
func (p *Parser) ValidateFormat(path string) bool {
	return slices.Contains(p.formats, strings.ToLower(filepath.Ext(path)))
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
