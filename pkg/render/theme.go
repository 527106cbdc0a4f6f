package render

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ThemeConfig is the resolved theme handed to renderers.
type ThemeConfig struct {
	Theme   string            `json:"theme"`
	Variant string            `json:"variant"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars map[string]string `json:"css_vars"`
}

// CSSVarsStyle renders the CSS variables as a :root block with sorted keys.
func (c *ThemeConfig) CSSVarsStyle() string {
	if c == nil || len(c.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(c.CSSVars))
	for key := range c.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(c.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// DefaultThemeName is the built-in theme.
const DefaultThemeName = "lawn"

// DefaultManifest returns the built-in theme, with a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface":      "#ffffff",
			"text":         "#222222",
			"border":       "#dddddd",
			"error":        "#dd1122",
			"muted":        "#888888",
			"radius":       "8px",
			"thumb-radius": "4px",
			"brand":        "#2f7d32",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#1b1f1b",
					"text":    "#f0f0f0",
					"border":  "#3a443a",
					"muted":   "#a0a8a0",
				},
			},
		},
	}
}

// ManifestSelector resolves themes from a fixed set of manifests. It
// satisfies theme.ThemeSelector.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests; the first one becomes the default
// unless SetDefaults is called.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	selector := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := selector.Register(manifest); err != nil {
			return nil, err
		}
	}
	return selector, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("render: theme manifest is nil")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("render: theme %q already registered", name)
	}
	s.manifests[name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = name
	}
	return nil
}

// SetDefaults sets the theme and variant used when Select receives empty
// names.
func (s *ManifestSelector) SetDefaults(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		s.defaultTheme = trimmed
	}
	s.defaultVariant = strings.TrimSpace(variant)
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not registered", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// ResolveTheme selects a theme and flattens its tokens (variant tokens win)
// into a ThemeConfig. Every token also becomes a "--<token>" CSS variable.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme selection for %q is empty", name)
	}

	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if selection.Variant != "" {
		for key, value := range selection.Manifest.Variants[selection.Variant].Tokens {
			tokens[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
	}, nil
}

type themeFile struct {
	Name     string                       `yaml:"name"`
	Version  string                       `yaml:"version"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// LoadThemesFS parses every *.yaml / *.yml file in fsys into a manifest.
// Variants are declared as a map of variant name to token overrides.
func LoadThemesFS(fsys fs.FS) ([]*theme.Manifest, error) {
	if fsys == nil {
		return nil, nil
	}

	var manifests []*theme.Manifest
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml":
		default:
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("render: read theme %s: %w", p, err)
		}
		var file themeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("render: parse theme %s: %w", p, err)
		}
		if strings.TrimSpace(file.Name) == "" {
			return fmt.Errorf("render: theme %s has no name", p)
		}

		manifest := &theme.Manifest{
			Name:    strings.TrimSpace(file.Name),
			Version: file.Version,
			Tokens:  file.Tokens,
		}
		if len(file.Variants) > 0 {
			manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
			for name, tokens := range file.Variants {
				manifest.Variants[name] = theme.Variant{Tokens: tokens}
			}
		}
		manifests = append(manifests, manifest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manifests, nil
}
