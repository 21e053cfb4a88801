package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/nasa-fornax/fornax-images/pkg/cli"
)

func main() {
	// .env is optional; it usually sets FORNAX_CONTAINER_ENGINE
	_ = godotenv.Load()

	os.Exit(cli.Execute(cli.NewChangedImagesCommand()))
}
