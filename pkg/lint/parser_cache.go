package lint

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupportedLanguage is returned for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParserProvider hands out tree-sitter parsers and grammars by language.
type ParserProvider interface {
	// Parser returns a parser configured for lang. The caller owns the
	// parser and must Close it.
	Parser(lang Language) (*sitter.Parser, error)

	// Grammar returns the tree-sitter language for lang.
	Grammar(lang Language) (*sitter.Language, error)
}

// ParserCache loads grammars lazily and shares them between callers.
//
// Thread Safety: safe for concurrent use. Grammars are read under a shared
// lock and populated under an exclusive lock with a second check, so each
// grammar is loaded once. Parsers are not safe to share, so Parser returns
// a new instance on every call.
type ParserCache struct {
	mu       sync.RWMutex
	grammars map[Language]*sitter.Language
	loads    int // grammar loads performed; read by tests
}

// NewParserCache creates an empty cache.
func NewParserCache() *ParserCache {
	return &ParserCache{grammars: make(map[Language]*sitter.Language)}
}

// Grammar implements ParserProvider.
func (c *ParserCache) Grammar(lang Language) (*sitter.Language, error) {
	c.mu.RLock()
	g, ok := c.grammars[lang]
	c.mu.RUnlock()
	if ok {
		return g, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.grammars[lang]; ok {
		return g, nil
	}
	g, err := loadGrammar(lang)
	if err != nil {
		return nil, err
	}
	c.grammars[lang] = g
	c.loads++
	return g, nil
}

// Parser implements ParserProvider.
func (c *ParserCache) Parser(lang Language) (*sitter.Parser, error) {
	g, err := c.Grammar(lang)
	if err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return p, nil
}

func loadGrammar(lang Language) (*sitter.Language, error) {
	switch lang {
	case LanguageGo:
		return golang.GetLanguage(), nil
	case LanguagePython:
		return python.GetLanguage(), nil
	case LanguageJavaScript:
		return javascript.GetLanguage(), nil
	case LanguageTypeScript:
		return typescript.GetLanguage(), nil
	case LanguageRust:
		return rust.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
}
