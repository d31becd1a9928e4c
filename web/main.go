package main

import (
	"flag"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/log"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenePath := flag.String("scene", "", "YAML scene file (default: built-in reference scene)")
	flag.Parse()

	logger := log.New(log.LevelInfo)
	defer logger.Sync() //nolint:errcheck

	var cfg *scene.Config
	if *scenePath != "" {
		loaded, err := scene.LoadFile(*scenePath)
		if err != nil {
			logger.Error("loading scene", log.Err(err))
			os.Exit(1)
		}
		if err := loaded.Validate(); err != nil {
			logger.Error("invalid scene", log.Err(err))
			os.Exit(1)
		}
		cfg = loaded
	}

	webServer := server.NewServer(*port, cfg, logger)
	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", log.Err(err))
		os.Exit(1)
	}
}
