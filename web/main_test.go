package main

import (
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestLoadScene(t *testing.T) {
	tests := []struct {
		name         string
		sceneFile    string
		expectedName string
	}{
		{"built-in default", "default", "default"},
		{"scene file", "../scenes/mirrors.txt", "mirrors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			s, name, err := loadScene(tt.sceneFile, logger)
			if err != nil {
				t.Fatalf("loadScene failed: %v", err)
			}
			if name != tt.expectedName {
				t.Errorf("Expected scene name %q, got %q", tt.expectedName, name)
			}

			expected := 1 + len(s.Primitives) + len(s.Lights)
			if len(logger.lines) != expected {
				t.Fatalf("Expected %d logged scene lines, got %d", expected, len(logger.lines))
			}
			if !strings.HasPrefix(logger.lines[0], "Scene:") {
				t.Errorf("Expected scene summary first, got %q", logger.lines[0])
			}
		})
	}
}

func TestLoadScene_InvalidFile(t *testing.T) {
	logger := &recordingLogger{}
	s, _, err := loadScene("../scenes/nonexistent.txt", logger)
	if err == nil {
		t.Fatal("Expected error for missing scene file")
	}
	if s != nil {
		t.Error("Expected nil scene on error")
	}
	if len(logger.lines) != 0 {
		t.Errorf("Expected nothing logged on error, got %d lines", len(logger.lines))
	}
}
