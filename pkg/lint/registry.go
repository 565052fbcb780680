package lint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// builtins is the global set of built-in definitions.
var builtins = struct {
	mu   sync.RWMutex
	defs map[string]Definition
}{defs: make(map[string]Definition)}

// Register adds a built-in definition.
// Call this from init() functions in rule packages.
func Register(def Definition) {
	def.Source = SourceBuiltin
	builtins.mu.Lock()
	defer builtins.mu.Unlock()
	builtins.defs[def.ID] = def
}

// BuiltinDefinitions returns all registered built-in definitions sorted by ID.
func BuiltinDefinitions() []Definition {
	builtins.mu.RLock()
	defer builtins.mu.RUnlock()

	defs := make([]Definition, 0, len(builtins.defs))
	for _, def := range builtins.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Registry stores compiled rules for one run.
type Registry struct {
	mu      sync.RWMutex
	rules   map[ratchet.RuleID]Rule
	sources map[ratchet.RuleID]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:   make(map[ratchet.RuleID]Rule),
		sources: make(map[ratchet.RuleID]string),
	}
}

// NewDefaultRegistry compiles the built-in definitions followed by defs.
// A user definition replaces a built-in with the same ID; two user
// definitions with the same ID are an error.
func NewDefaultRegistry(parsers ParserProvider, defs []Definition) (*Registry, error) {
	reg := NewRegistry()
	for _, def := range BuiltinDefinitions() {
		rule, err := def.Build(parsers)
		if err != nil {
			return nil, fmt.Errorf("built-in rule %s: %w", def.ID, err)
		}
		if err := reg.Add(rule, SourceBuiltin); err != nil {
			return nil, err
		}
	}
	for _, def := range defs {
		rule, err := def.Build(parsers)
		if err != nil {
			return nil, err
		}
		if src, ok := reg.Source(rule.ID()); ok && src == SourceBuiltin {
			reg.Replace(rule, def.Source)
			continue
		}
		if err := reg.Add(rule, def.Source); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Add registers rule. Registering an ID twice is an error.
func (r *Registry) Add(rule Rule, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.sources[rule.ID()]; ok {
		return fmt.Errorf("duplicate rule id %s (defined in %s and %s)", rule.ID(), prev, source)
	}
	r.rules[rule.ID()] = rule
	r.sources[rule.ID()] = source
	return nil
}

// Replace registers rule, overwriting any rule with the same ID.
func (r *Registry) Replace(rule Rule, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
	r.sources[rule.ID()] = source
}

// Get returns a rule by its ID.
func (r *Registry) Get(id ratchet.RuleID) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Source returns where the rule with id was defined.
func (r *Registry) Source(id ratchet.RuleID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[id]
	return src, ok
}

// All returns all rules sorted by ID.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// Info returns metadata for all rules sorted by ID.
func (r *Registry) Info() []RuleInfo {
	rules := r.All()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		src, _ := r.Source(rule.ID())
		infos = append(infos, GetRuleInfo(rule, src))
	}
	return infos
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
