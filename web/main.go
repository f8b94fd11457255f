package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	sceneFile := flag.String("scene", "default", "Scene: 'default' or a path to a .txt scene file")
	configPath := flag.String("config", "", "Optional YAML render options file")
	flag.Parse()

	opts := loaders.DefaultRenderOptions()
	if *configPath != "" {
		var err error
		if opts, err = loaders.LoadRenderOptions(*configPath); err != nil {
			log.Printf("Error loading render options: %v", err)
			os.Exit(1)
		}
	}

	s, sceneName, err := loadScene(*sceneFile, renderer.NewDefaultLogger())
	if err != nil {
		log.Printf("Error loading scene: %v", err)
		os.Exit(1)
	}

	frame, err := opts.Frame()
	if err != nil {
		log.Printf("Error building camera: %v", err)
		os.Exit(1)
	}
	session, err := server.NewSession(s, sceneName, frame, opts.RenderConfig(), opts.OutputDir)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		os.Exit(1)
	}

	// Create and start web server
	webServer := server.NewServer(*port, session)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to steer the camera", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}

// loadScene returns the built-in scene or parses a scene file, and logs
// what was loaded
func loadScene(sceneFile string, logger core.Logger) (*scene.Scene, string, error) {
	s, sceneName := scene.NewDefaultScene(), "default"
	if sceneFile != "default" {
		var err error
		if s, err = loaders.LoadScene(sceneFile); err != nil {
			return nil, "", err
		}
		sceneName = strings.TrimSuffix(filepath.Base(sceneFile), ".txt")
	}
	s.Describe(logger)
	return s, sceneName, nil
}
