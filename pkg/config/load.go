package config

import (
	"errors"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tribble/internal/logging"
	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/schema"
)

// DefaultLocale is the locale under which a Language document loaded on its
// own is registered. Asking a Bundle for it falls back to the first locale.
const DefaultLocale = ""

// Option configures loading.
type Option func(*loader)

// WithSchemaValidation checks each document against schema.Document before
// decoding it.
func WithSchemaValidation() Option {
	return func(l *loader) { l.schema = true }
}

// WithLinkCheck rejects workflows containing progressions whose link names
// no section or endpoint. By default such links only fail when taken.
func WithLinkCheck() Option {
	return func(l *loader) { l.links = true }
}

// WithLogger sets the logger used to report loading progress.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) { l.logger = logger }
}

type loader struct {
	schema bool
	links  bool
	logger *slog.Logger
}

func newLoader(opts []Option) *loader {
	l := &loader{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bundle is a loaded configuration document together with every language
// document it references.
type Bundle struct {
	// Path is the file the bundle was loaded from.
	Path string
	// Document is the document at Path, Root or Language.
	Document *domain.Config
	// Languages maps locale to Language document.
	Languages map[string]*domain.Config
	// Files maps locale to the resolved path of its language file.
	Files map[string]string
}

// Load reads the configuration document at path. For a Root document every
// referenced language file is loaded as well, so that missing files,
// malformed files and Root-to-Root links are reported here.
func Load(path string, opts ...Option) (*domain.Config, error) {
	b, err := LoadBundle(path, opts...)
	if err != nil {
		return nil, err
	}
	return b.Document, nil
}

// LoadBundle reads the document at path and every language file it references.
// Language paths are resolved relative to the directory of the Root document.
func LoadBundle(path string, opts ...Option) (*Bundle, error) {
	l := newLoader(opts)
	doc, err := l.load(path)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Path:      path,
		Document:  doc,
		Languages: make(map[string]*domain.Config),
		Files:     make(map[string]string),
	}
	if !doc.IsRoot() {
		b.Languages[DefaultLocale] = doc
		b.Files[DefaultLocale] = path
		l.logger.Debug("Language config loaded", "path", path, "workflows", len(doc.Workflows))
		return b, nil
	}

	if len(doc.Languages) == 0 {
		return nil, &NoLanguagesError{Filename: path}
	}
	for _, locale := range slices.Sorted(maps.Keys(doc.Languages)) {
		langPath := ResolvePath(path, doc.Languages[locale])
		lang, err := l.load(langPath)
		if err != nil {
			return nil, err
		}
		if lang.IsRoot() {
			return nil, &RootLinksToRootError{Filename: path, Linked: langPath}
		}
		b.Languages[locale] = lang
		b.Files[locale] = langPath
		l.logger.Debug("Language config loaded", "locale", locale, "path", langPath, "workflows", len(lang.Workflows))
	}
	return b, nil
}

// Parse decodes a single document. filename is only used in errors.
// Language files referenced by a Root document are not followed.
func Parse(filename string, data []byte, opts ...Option) (*domain.Config, error) {
	return newLoader(opts).parse(filename, data)
}

// ResolvePath resolves a language file path against the Root document at base.
func ResolvePath(base, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(base), rel)
}

func (l *loader) load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FilesystemError{Filename: path, Err: err}
	}
	return l.parse(path, data)
}

func (l *loader) parse(filename string, data []byte) (*domain.Config, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if node.Kind == 0 || (node.Kind == yaml.DocumentNode && len(node.Content) == 0) {
		return nil, &ParseError{Filename: filename, Err: errors.New("document is empty")}
	}

	if l.schema {
		var doc any
		if err := node.Decode(&doc); err != nil {
			return nil, &ParseError{Filename: filename, Err: err}
		}
		if err := schema.Validate(doc); err != nil {
			return nil, &ParseError{Filename: filename, Err: err}
		}
	}

	d := &decoder{}
	cfg := d.document(&node)
	if err := d.errs.ErrOrNil(); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if cfg.Kind == domain.ConfigLanguage {
		validateConfig(cfg, l.links, &d.errs)
		if err := d.errs.ErrOrNil(); err != nil {
			return nil, &ParseError{Filename: filename, Err: err}
		}
	}
	return cfg, nil
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	return slices.Sorted(maps.Keys(b.Languages))
}

// Language returns the Language document for locale. DefaultLocale selects
// the first locale when no document is registered under it.
func (b *Bundle) Language(locale string) (*domain.Config, error) {
	if cfg, ok := b.Languages[locale]; ok {
		return cfg, nil
	}
	if locale == DefaultLocale && len(b.Languages) > 0 {
		return b.Languages[b.Locales()[0]], nil
	}
	return nil, &domain.LocaleNotFoundError{Locale: locale, Available: b.Locales()}
}

// Workflow looks up a workflow by locale and name, returning the Language
// document that holds it.
func (b *Bundle) Workflow(locale, name string) (*domain.Workflow, *domain.Config, error) {
	cfg, err := b.Language(locale)
	if err != nil {
		return nil, nil, err
	}
	wf, ok := cfg.Workflows[name]
	if !ok {
		return nil, nil, &domain.WorkflowNotFoundError{Name: name, Available: slices.Sorted(maps.Keys(cfg.Workflows))}
	}
	return wf, cfg, nil
}

// Paths returns every file the bundle was read from, sorted and deduplicated.
func (b *Bundle) Paths() []string {
	set := map[string]bool{b.Path: true}
	for _, p := range b.Files {
		set[p] = true
	}
	return slices.Sorted(maps.Keys(set))
}
