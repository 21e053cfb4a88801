package builder

import (
	"path/filepath"
	"strings"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/config"
)

// Builder composes container engine commands and hands them to an Executor.
type Builder struct {
	engine         string
	registry       string
	order          []string
	defaultArgKeys []string
	upperCaseKeys  bool
	keepFullTag    bool
	root           string
	dryRun         bool

	exec command.Executor
}

type Option func(*Builder)

// WithEngine sets the container engine binary.
func WithEngine(engine string) Option {
	return func(b *Builder) {
		b.engine = engine
	}
}

// WithRegistry sets the registry host prefixed to image references. Empty means none.
func WithRegistry(registry string) Option {
	return func(b *Builder) {
		b.registry = strings.TrimRight(registry, "/")
	}
}

// WithOrder sets the build order.
func WithOrder(order []string) Option {
	return func(b *Builder) {
		b.order = append([]string(nil), order...)
	}
}

// WithDefaultBuildArgs sets which build args are filled in when the caller omits them.
func WithDefaultBuildArgs(keys []string) Option {
	return func(b *Builder) {
		b.defaultArgKeys = append([]string(nil), keys...)
	}
}

// WithUpperCaseKeys upper-cases the key of every caller supplied build arg.
func WithUpperCaseKeys() Option {
	return func(b *Builder) {
		b.upperCaseKeys = true
	}
}

// WithFullTag passes the full repo:tag reference to --tag instead of the bare tag.
func WithFullTag() Option {
	return func(b *Builder) {
		b.keepFullTag = true
	}
}

// WithRoot sets the directory image paths are resolved against on disk.
func WithRoot(root string) Option {
	return func(b *Builder) {
		b.root = root
	}
}

// WithDryRun stops the builder touching lock files. Commands are still sent
// to the executor, which is expected to be a dry-run Runner as well.
func WithDryRun(dryRun bool) Option {
	return func(b *Builder) {
		b.dryRun = dryRun
	}
}

// FromConfig applies the registry, build order and default build args of cfg.
func FromConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		WithRegistry(cfg.Registry)(b)
		WithOrder(cfg.Order)(b)
		WithDefaultBuildArgs(cfg.DefaultBuildArgs)(b)
	}
}

// New returns a Builder running commands through exec.
func New(exec command.Executor, opts ...Option) *Builder {
	b := &Builder{
		engine:         command.EngineFromEnvironment(),
		registry:       config.DefaultRegistry,
		order:          append([]string(nil), config.DefaultOrder...),
		defaultArgKeys: []string{config.ArgRepository, config.ArgImageTag},
		exec:           exec,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Order returns the build order.
func (b *Builder) Order() []string {
	return append([]string(nil), b.order...)
}

// Engine returns the container engine binary.
func (b *Builder) Engine() string {
	return b.engine
}

// path resolves an image path on disk.
func (b *Builder) path(imagePath string) string {
	if b.root == "" || filepath.IsAbs(imagePath) {
		return imagePath
	}
	return filepath.Join(b.root, imagePath)
}
