package command

import (
	"os"

	"github.com/nasa-fornax/fornax-images/pkg/global"
)

// DefaultEngine is the container engine used when nothing else is configured.
const DefaultEngine = "docker"

// EngineFromEnvironment returns the container engine binary, honoring
// FORNAX_CONTAINER_ENGINE.
func EngineFromEnvironment() string {
	engine := os.Getenv(global.EngineEnvVar)
	if engine == "" {
		engine = DefaultEngine
	}
	return engine
}
