package builder

import (
	"strings"

	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// Target is an image to build together with its full tag.
type Target struct {
	Image string
	Tag   string
}

// ImageRef returns the full reference of image, e.g.
// ghcr.io/nasa-fornax/fornax-images/base_image:main.
func (b *Builder) ImageRef(repository, image, tag string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{b.registry, strings.Trim(repository, "/"), image} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/") + ":" + tag
}

// BuildsNecessary returns the requested images in build order, regardless of
// the order they were requested in.
func (b *Builder) BuildsNecessary(repository, tag string, requested []string) ([]Target, error) {
	known := make(map[string]bool, len(b.order))
	for _, name := range b.order {
		known[name] = true
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		if !known[name] {
			console.Errorf("Unknown image name %s", name)
			return nil, &UnknownImageError{Name: name, Known: b.Order()}
		}
		want[name] = true
	}

	var targets []Target
	for _, name := range b.order {
		if want[name] {
			targets = append(targets, Target{Image: name, Tag: b.ImageRef(repository, name, tag)})
		}
	}
	return targets, nil
}
