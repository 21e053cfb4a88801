package dockerignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/nasa-fornax/fornax-images/pkg/util/files"
)

const DockerIgnoreFilename = ".dockerignore"

// Matcher holds the .dockerignore patterns of one image directory.
// A nil Matcher ignores nothing.
type Matcher struct {
	ignore *ignore.GitIgnore
}

// CreateMatcher reads dir/.dockerignore. It returns nil when the file does not exist.
func CreateMatcher(dir string) (*Matcher, error) {
	dockerIgnorePath := filepath.Join(dir, DockerIgnoreFilename)
	dockerIgnoreExists, err := files.Exists(dockerIgnorePath)
	if err != nil {
		return nil, err
	}
	if !dockerIgnoreExists {
		return nil, nil
	}

	patterns, err := readDockerIgnore(dockerIgnorePath)
	if err != nil {
		return nil, err
	}
	return &Matcher{ignore: ignore.CompileIgnoreLines(patterns...)}, nil
}

// Ignored reports whether path, relative to the image directory, is left out
// of the build context.
func (m *Matcher) Ignored(path string) bool {
	if m == nil {
		return false
	}
	return m.ignore.MatchesPath(filepath.ToSlash(path))
}

func readDockerIgnore(dockerIgnorePath string) ([]string, error) {
	var patterns []string
	file, err := os.Open(dockerIgnorePath)
	if err != nil {
		return patterns, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}
