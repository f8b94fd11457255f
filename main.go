package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene: 'default', a name under scenes/, or a path to a .txt scene file")
	configPath := flag.String("config", "", "Optional YAML render options file")
	outDir := flag.String("out", "", "Output directory (overrides the options file)")
	depth := flag.Int("depth", -1, "Recursion depth (overrides the scene file)")
	size := flag.Int("size", 0, "Image edge length in pixels (overrides the scene file)")
	workers := flag.Int("workers", -1, "Number of parallel workers (0 = number of CPUs)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Spheres, a triangle and a quadric over the checkerboard floor")
		for _, name := range listSceneFiles("scenes") {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting Whitted Raytracer...")
	logger := renderer.NewDefaultLogger()

	opts := loaders.DefaultRenderOptions()
	if *configPath != "" {
		var err error
		opts, err = loaders.LoadRenderOptions(*configPath)
		if err != nil {
			fmt.Printf("Error loading render options: %v\n", err)
			os.Exit(1)
		}
	}
	if *outDir != "" {
		opts.OutputDir = *outDir
	}
	if *workers >= 0 {
		opts.Workers = *workers
	}

	s, sceneName, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}
	if *depth >= 0 {
		s.MaxDepth = *depth
	}
	if *size > 0 {
		s.ImageSize = *size
	}
	s.Describe(logger)

	filename, err := renderToFile(context.Background(), s, sceneName, opts, logger)
	if err != nil {
		fmt.Printf("Error rendering scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// createScene returns the built-in scene for "default", otherwise loads a
// scene file given by path or by name under scenes/. The second result is
// the name used for the output directory.
func createScene(sceneType string) (*scene.Scene, string, error) {
	if sceneType == "" {
		return nil, "", fmt.Errorf("scene name cannot be empty")
	}
	if sceneType == "default" {
		return scene.NewDefaultScene(), "default", nil
	}

	path := sceneType
	if !strings.HasSuffix(sceneType, ".txt") {
		path = filepath.Join("scenes", sceneType+".txt")
	}
	s, err := loaders.LoadScene(path)
	if err != nil {
		return nil, "", fmt.Errorf("unknown scene %q: %w", sceneType, err)
	}
	return s, strings.TrimSuffix(filepath.Base(path), ".txt"), nil
}

// createOutputDir returns the directory renders of a scene are written to
func createOutputDir(baseDir, sceneName string) string {
	return filepath.Join(baseDir, sceneName)
}

// renderToFile renders one frame and writes it as a timestamped PNG
func renderToFile(ctx context.Context, s *scene.Scene, sceneName string, opts loaders.RenderOptions, logger core.Logger) (string, error) {
	frame, err := opts.Frame()
	if err != nil {
		return "", err
	}
	raytracer, err := renderer.NewRaytracer(s, frame, opts.RenderConfig(), logger)
	if err != nil {
		return "", err
	}

	buffer, _, err := raytracer.Render(ctx)
	if err != nil {
		return "", err
	}

	outputDir := createOutputDir(opts.OutputDir, sceneName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	if err := buffer.SavePNG(filename); err != nil {
		return "", fmt.Errorf("error saving PNG: %w", err)
	}
	return filename, nil
}

// listSceneFiles returns the names of the scene files in dir
func listSceneFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".txt"))
	}
	return names
}
