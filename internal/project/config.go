package project

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"apidef/internal/sema"
)

var (
	// ErrUnknownKeys is wrapped when apidef.toml has keys Config does not know.
	ErrUnknownKeys = errors.New("unknown configuration keys")
	// ErrBadAttribute is wrapped for an [[attribute]] entry that cannot be registered.
	ErrBadAttribute = errors.New("invalid attribute declaration")
)

// Config is the decoded apidef.toml.
//
//	[check]
//	max_diagnostics = 200
//	warnings_as_errors = false
//
//	[cache]
//	enabled = true
//	dir = ".apidef-cache"
//
//	[[attribute]]
//	name = "Export"
//	targets = ["struct", "enum"]
//	min_args = 0
//	max_args = 1
type Config struct {
	Check      CheckConfig     `toml:"check"`
	Cache      CacheConfig     `toml:"cache"`
	Attributes []AttributeDecl `toml:"attribute"`

	// Path is where the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type CheckConfig struct {
	MaxDiagnostics   int  `toml:"max_diagnostics"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // relative to the config file
}

// AttributeDecl registers a project-specific attribute.
// MaxArgs: nil means "same as min_args", -1 means unbounded.
type AttributeDecl struct {
	Name            string   `toml:"name"`
	Targets         []string `toml:"targets"`
	MinArgs         int      `toml:"min_args"`
	MaxArgs         *int     `toml:"max_args"`
	RequiresMethods bool     `toml:"requires_methods"`
	NoFields        bool     `toml:"no_fields"`
	Companion       string   `toml:"companion"`
}

const (
	DefaultMaxDiagnostics = 200
	DefaultCacheDir       = ".apidef-cache"
)

// DefaultConfig is used when no apidef.toml is found.
func DefaultConfig() Config {
	return Config{
		Check: CheckConfig{MaxDiagnostics: DefaultMaxDiagnostics},
		Cache: CacheConfig{Enabled: false, Dir: DefaultCacheDir},
	}
}

// LoadConfig decodes path on top of DefaultConfig. Keys that do not map to a
// Config field are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir
	}
	if _, err := cfg.Registry(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds apidef.toml above start and loads it, or returns
// DefaultConfig when there is none.
func Discover(start string) (Config, error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Spec converts the declaration into a registry entry.
func (a AttributeDecl) Spec() (sema.AttrSpec, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return sema.AttrSpec{}, fmt.Errorf("%w: missing name", ErrBadAttribute)
	}
	if len(a.Targets) == 0 {
		return sema.AttrSpec{}, fmt.Errorf("%w %q: no targets", ErrBadAttribute, name)
	}
	targets, err := sema.ParseTargets(a.Targets)
	if err != nil {
		return sema.AttrSpec{}, fmt.Errorf("%w %q: %w", ErrBadAttribute, name, err)
	}
	maxArgs := a.MinArgs
	if a.MaxArgs != nil {
		maxArgs = *a.MaxArgs
	}
	switch {
	case a.MinArgs < 0:
		return sema.AttrSpec{}, fmt.Errorf("%w %q: min_args is negative", ErrBadAttribute, name)
	case maxArgs != sema.Unbounded && maxArgs < a.MinArgs:
		return sema.AttrSpec{}, fmt.Errorf("%w %q: max_args %d is below min_args %d", ErrBadAttribute, name, maxArgs, a.MinArgs)
	}
	spec := sema.AttrSpec{
		Name:      name,
		Targets:   targets,
		MinArgs:   a.MinArgs,
		MaxArgs:   maxArgs,
		Companion: a.Companion,
	}
	if a.RequiresMethods {
		spec.Flags |= sema.AttrFlagNeedsMethods
	}
	if a.NoFields {
		spec.Flags |= sema.AttrFlagNoFields
	}
	return spec, nil
}

// Registry returns the default attribute registry extended with the
// project's [[attribute]] entries. A project entry replaces a built-in one
// with the same name.
func (c Config) Registry() (*sema.Registry, error) {
	reg := sema.DefaultRegistry()
	for _, decl := range c.Attributes {
		spec, err := decl.Spec()
		if err != nil {
			return nil, err
		}
		reg.Add(spec)
	}
	return reg, nil
}

// Digest identifies everything in the config that changes validation
// results. Cache entries are keyed on it.
func (c Config) Digest() Digest {
	reg, err := c.Registry()
	if err != nil {
		return Digest{}
	}
	specs := reg.Specs()
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		parts = append(parts, strings.Join([]string{
			s.Name,
			strconv.Itoa(int(s.Targets)),
			strconv.Itoa(s.MinArgs),
			strconv.Itoa(s.MaxArgs),
			strconv.Itoa(int(s.Flags)),
			s.Companion,
		}, "|"))
	}
	sort.Strings(parts)
	return HashStrings(parts...)
}
