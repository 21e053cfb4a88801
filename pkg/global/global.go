package global

import "time"

var (
	Version   = "0.0.1"
	BuildTime = "none"
	Verbose   = false
	Debug     = false

	ConfigFilename = "images.yaml"
	BuildFilename  = "Dockerfile"
	EngineEnvVar   = "FORNAX_CONTAINER_ENGINE"

	BuildTimeout  = 10000 * time.Second
	PushTimeout   = 1000 * time.Second
	ExportTimeout = 500 * time.Second
	GitTimeout    = 500 * time.Second
)
