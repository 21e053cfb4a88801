package config

// Default build-arg keys the builder knows how to fill in.
const (
	ArgRepository   = "REPOSITORY"
	ArgImageTag     = "IMAGE_TAG"
	ArgBaseImageTag = "BASE_IMAGE_TAG"
)

const DefaultRegistry = "ghcr.io"

// DefaultOrder is the build order used when images.yaml does not set one.
// tractor is built FROM base_image, so base_image must come first.
var DefaultOrder = []string{
	"base_image",
	"tractor",
}

// Config is the contents of images.yaml.
type Config struct {
	Registry         string   `json:"registry"`
	Engine           string   `json:"engine,omitempty"`
	BuildKit         *bool    `json:"buildkit,omitempty"`
	Order            []string `json:"order,omitempty"`
	DefaultBuildArgs []string `json:"default_build_args,omitempty"`

	filename string
}

// Default returns the configuration used when no images.yaml exists.
func Default() *Config {
	c := &Config{Registry: DefaultRegistry}
	c.complete()
	return c
}

// Filename is the file the config was loaded from, or empty for defaults.
func (c *Config) Filename() string {
	return c.filename
}

// BuildKitEnabled reports whether DOCKER_BUILDKIT=1 should be exported.
func (c *Config) BuildKitEnabled() bool {
	return c.BuildKit == nil || *c.BuildKit
}

// Environment returns the extra environment passed to engine commands.
// BuildKit is needed for `COPY --chmod` in the Dockerfiles.
func (c *Config) Environment() []string {
	if c.BuildKitEnabled() {
		return []string{"DOCKER_BUILDKIT=1"}
	}
	return nil
}

func (c *Config) complete() {
	if len(c.Order) == 0 {
		c.Order = append([]string(nil), DefaultOrder...)
	}
	if len(c.DefaultBuildArgs) == 0 {
		c.DefaultBuildArgs = []string{ArgRepository, ArgImageTag}
	}
}
