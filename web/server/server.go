package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/camera"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Server exposes a session over HTTP: camera control, rendering and capture
type Server struct {
	port    int
	session *Session
}

// NewServer creates a new web server
func NewServer(port int, session *Session) *Server {
	return &Server{port: port, session: session}
}

// FrameResponse is the JSON form of a camera frame
type FrameResponse struct {
	Eye   [3]float64 `json:"eye"`
	Look  [3]float64 `json:"look"`
	Up    [3]float64 `json:"up"`
	Right [3]float64 `json:"right"`
}

func vecJSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func newFrameResponse(f camera.Frame) FrameResponse {
	return FrameResponse{
		Eye:   vecJSON(f.Eye),
		Look:  vecJSON(f.Look),
		Up:    vecJSON(f.Up),
		Right: vecJSON(f.Right),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/camera", s.handleCamera)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scene", s.handleScene)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCamera applies a camera command, or captures the current view
// when the command is "capture"
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, newFrameResponse(s.session.Frame()))
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "use GET or POST")
		return
	}

	query := r.URL.Query()
	command := query.Get("command")
	if command == "capture" {
		filename, err := s.session.Capture(r.Context(), NewWebLogger("capture", nil))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Capture failed: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"file": filename})
		return
	}

	amount, err := parseFloatParam(query, "amount", 0, -1000, 1000)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	frame, err := s.session.Apply(command, amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newFrameResponse(frame))
}

// RenderRequest carries the optional preview overrides of a render
type RenderRequest struct {
	Size  int // image edge length, 0 = scene value
	Depth int // recursion depth, -1 = scene value
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}

	var err error
	if req.Size, err = parseIntParam(r.URL.Query(), "size", 0, 1, 2048); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(r.URL.Query(), "depth", -1, 0, 16); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Size > 1024 && req.Depth > 8 {
		log.Printf("Render warning: Large image with deep recursion may render slowly")
	}
	return req, nil
}

// handleRender renders the current view and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	startTime := time.Now()
	buffer, stats, _, err := s.session.Render(r.Context(), req.Size, req.Depth, NewWebLogger("render", nil))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Render-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	w.Header().Set("X-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	if err := buffer.EncodePNG(w); err != nil {
		log.Printf("Error encoding render: %v", err)
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// handleScene describes the loaded scene
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sc := s.session.Scene()

	objects := make([]string, 0, len(sc.Primitives))
	for _, p := range sc.Primitives {
		objects = append(objects, p.String())
	}
	lightList := make([]string, 0, len(sc.Lights))
	for _, l := range sc.Lights {
		lightList = append(lightList, l.String())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"maxDepth":  sc.MaxDepth,
		"imageSize": sc.ImageSize,
		"objects":   objects,
		"lights":    lightList,
		"commands":  append(CameraCommands(), "capture"),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
