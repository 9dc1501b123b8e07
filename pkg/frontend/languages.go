package frontend

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/java"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/json"
	"github.com/alexaandru/go-sitter-forest/python"
)

// languageFuncs maps language names to their tree-sitter GetLanguage functions.
var languageFuncs = map[string]func() unsafe.Pointer{
	"go":         golang.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
	"json":       json.GetLanguage,
	"python":     python.GetLanguage,
}

var languageCache sync.Map

// Languages returns the supported language names, sorted.
func Languages() []string {
	out := make([]string, 0, len(languageFuncs))

	for name := range languageFuncs {
		out = append(out, name)
	}

	slices.Sort(out)

	return out
}

// grammar returns the tree-sitter Language for the given name, or nil if not supported.
func grammar(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// DetectLanguage guesses the language of a file from its name and, when the
// name is ambiguous, its content.
func DetectLanguage(filename string, content []byte) (string, error) {
	lang := enry.GetLanguage(path.Base(filename), content)
	name := strings.ToLower(lang)

	if _, ok := languageFuncs[name]; !ok {
		if lang == "" {
			lang = "unknown"
		}

		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedLanguage, filename, lang)
	}

	return name, nil
}
