// Package i18n looks up user-facing strings. Catalogs are flat YAML maps
// from key to message; "{name}" placeholders are filled from params.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var builtin embed.FS

// Params fills placeholders in a message
type Params map[string]any

// Localizer is what the core needs from localization
type Localizer interface {
	GetString(key string, params Params) string
}

// Catalog is a Localizer backed by YAML catalogs. Lookups fall back from the
// matched language to English and finally to the key itself.
type Catalog struct {
	mu        sync.RWMutex
	requested string
	tag       language.Tag
	messages  map[string]string
	fallback  map[string]string
	dir       string
	logger    *zap.Logger
}

// Option configures a Catalog
type Option func(*Catalog)

// WithOverrideDir loads <dir>/<lang>.yaml files over the built-in catalogs
func WithOverrideDir(dir string) Option {
	return func(c *Catalog) {
		c.dir = dir
	}
}

// WithLogger sets the logger for missing keys and bad override files
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a catalog for the best available match of locale
func New(locale string, opts ...Option) (*Catalog, error) {
	c := &Catalog{requested: locale, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rereads the built-in and override catalogs
func (c *Catalog) Reload() error {
	all, err := loadAll(c.dir, c.logger)
	if err != nil {
		return err
	}
	tag := Match(c.requested, available(all))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tag = tag
	c.messages = all[tag.String()]
	c.fallback = all[language.English.String()]
	return nil
}

// Language returns the catalog language actually in use
func (c *Catalog) Language() language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tag
}

// GetString returns the message for key with params substituted
func (c *Catalog) GetString(key string, params Params) string {
	c.mu.RLock()
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	c.mu.RUnlock()

	if !ok {
		c.logger.Debug("Missing localization key", zap.String("key", key))
		msg = key
	}
	return Format(msg, params)
}

// Keys returns every key known in the active language, sorted
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format substitutes "{name}" placeholders. Unknown placeholders are left as is.
func Format(msg string, params Params) string {
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Match picks the supported language closest to locale, defaulting to English
func Match(locale string, supported []language.Tag) language.Tag {
	if len(supported) == 0 {
		return language.English
	}
	desired, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		desired = language.English
	}
	matcher := language.NewMatcher(supported)
	_, index, confidence := matcher.Match(desired)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// available lists catalog languages with English first so it wins ties
func available(all map[string]map[string]string) []language.Tag {
	tags := []language.Tag{language.English}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == language.English.String() {
			continue
		}
		if tag, err := language.Parse(name); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

func loadAll(dir string, logger *zap.Logger) (map[string]map[string]string, error) {
	all := make(map[string]map[string]string)

	entries, err := builtin.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in locales: %w", err)
	}
	for _, e := range entries {
		data, err := builtin.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in locale %s: %w", e.Name(), err)
		}
		if err := merge(all, e.Name(), data); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return all, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list locale overrides: %w", err)
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable locale override", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := merge(all, filepath.Base(path), data); err != nil {
			logger.Warn("Skipping invalid locale override", zap.String("path", path), zap.Error(err))
		}
	}
	return all, nil
}

func merge(all map[string]map[string]string, filename string, data []byte) error {
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("failed to parse locale %s: %w", filename, err)
	}
	tag, err := language.Parse(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if err != nil {
		return fmt.Errorf("invalid locale file name %s: %w", filename, err)
	}
	name := tag.String()
	if all[name] == nil {
		all[name] = make(map[string]string, len(messages))
	}
	for k, v := range messages {
		all[name][k] = v
	}
	return nil
}
