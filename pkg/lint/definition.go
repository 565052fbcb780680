package lint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"gopkg.in/yaml.v3"
)

// Definition declares a rule. Exactly one of Regex and Query must be set.
type Definition struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Message     string   `yaml:"message,omitempty"`
	Languages   []string `yaml:"languages,omitempty"`
	Regex       string   `yaml:"regex,omitempty"`
	Query       string   `yaml:"query,omitempty"`
	Include     []string `yaml:"include,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`

	// Source is where the definition came from: "builtin" or a file path.
	Source string `yaml:"-"`
}

// SourceBuiltin marks definitions compiled into the binary.
const SourceBuiltin = "builtin"

// ErrInvalidDefinition is wrapped by every definition validation failure.
var ErrInvalidDefinition = errors.New("invalid rule definition")

// Validate checks the definition without compiling the AST query.
func (d *Definition) Validate() error {
	if _, ok := ratchet.NewRuleID(d.ID); !ok {
		return fmt.Errorf("%w: invalid rule id %q", ErrInvalidDefinition, d.ID)
	}
	switch {
	case d.Regex == "" && d.Query == "":
		return fmt.Errorf("%w: rule %s: one of regex or query is required", ErrInvalidDefinition, d.ID)
	case d.Regex != "" && d.Query != "":
		return fmt.Errorf("%w: rule %s: regex and query are mutually exclusive", ErrInvalidDefinition, d.ID)
	}
	if d.Regex != "" {
		if _, err := regexp.Compile(d.Regex); err != nil {
			return fmt.Errorf("%w: rule %s: %v", ErrInvalidDefinition, d.ID, err)
		}
	}
	if d.Query != "" && len(d.Languages) == 0 {
		return fmt.Errorf("%w: rule %s: query rules must list their languages", ErrInvalidDefinition, d.ID)
	}
	if _, err := d.languages(); err != nil {
		return err
	}
	for _, p := range append(append([]string{}, d.Include...), d.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: rule %s: invalid glob %q", ErrInvalidDefinition, d.ID, p)
		}
	}
	return nil
}

func (d *Definition) languages() ([]Language, error) {
	langs := make([]Language, 0, len(d.Languages))
	for _, s := range d.Languages {
		l, ok := ParseLanguage(s)
		if !ok {
			return nil, fmt.Errorf("%w: rule %s: unsupported language %q", ErrInvalidDefinition, d.ID, s)
		}
		langs = append(langs, l)
	}
	return langs, nil
}

func (d *Definition) base() (ruleBase, error) {
	if err := d.Validate(); err != nil {
		return ruleBase{}, err
	}
	langs, _ := d.languages()
	msg := d.Message
	if msg == "" {
		msg = d.Description
	}
	return ruleBase{
		id:          ratchet.RuleID(d.ID),
		description: d.Description,
		message:     msg,
		languages:   langs,
		include:     d.Include,
		exclude:     d.Exclude,
	}, nil
}

// Build compiles the definition into a Rule. parsers is only used by query
// rules and may be nil for regex rules.
func (d *Definition) Build(parsers ParserProvider) (Rule, error) {
	if d.Query != "" {
		return NewASTRule(*d, parsers)
	}
	return NewRegexRule(*d)
}

// ParseDefinition decodes one YAML rule definition. Unknown keys are rejected.
func ParseDefinition(data []byte, source string) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, fmt.Errorf("%w: %s: empty file", ErrInvalidDefinition, source)
		}
		return Definition{}, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, source, err)
	}
	def.Source = source
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("%s: %w", source, err)
	}
	return def, nil
}

// LoadDefinitions reads every *.yaml and *.yml file in dir, sorted by name.
// A missing directory yields no definitions.
func LoadDefinitions(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // user-controlled rules directory
		if err != nil {
			return nil, fmt.Errorf("failed to read rule %s: %w", path, err)
		}
		def, err := ParseDefinition(data, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
