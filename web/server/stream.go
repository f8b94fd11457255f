package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// FrameUpdate is the payload of a "frame" event
type FrameUpdate struct {
	ImageData      string        `json:"imageData"` // Base64 encoded PNG
	Camera         FrameResponse `json:"camera"`
	ElapsedMs      int64         `json:"elapsedMs"`
	TotalPixels    int           `json:"totalPixels"`
	HitPixels      int           `json:"hitPixels"`
	ShadowRays     int64         `json:"shadowRays"`
	ReflectionRays int64         `json:"reflectionRays"`
	MaxNesting     int64         `json:"maxNesting"`
	PrimitiveCount int           `json:"primitiveCount"`
}

// handleRenderStream renders the current view and streams the renderer's
// console output followed by the finished frame via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	stream := openSSEStream(r.Context(), w)
	// w belongs to the server again once the handler returns
	defer stream.close()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		stream.send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		forwardConsole(stream, consoleChan)
	}()

	startTime := time.Now()
	buffer, stats, frame, err := s.session.Render(r.Context(), req.Size, req.Depth, webLogger)
	close(consoleChan)
	<-forwarded

	if err != nil {
		stream.send("error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(buffer)
	if err != nil {
		stream.send("error", fmt.Sprintf("Failed to encode image: %v", err))
		return
	}
	update := FrameUpdate{
		ImageData:      imageData,
		Camera:         newFrameResponse(frame),
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    stats.TotalPixels,
		HitPixels:      stats.HitPixels,
		ShadowRays:     stats.Rays.ShadowRays,
		ReflectionRays: stats.Rays.ReflectionRays,
		MaxNesting:     stats.Rays.MaxNesting,
		PrimitiveCount: s.session.Scene().GetPrimitiveCount(),
	}
	if err := stream.sendJSON("frame", update); err != nil {
		stream.send("error", fmt.Sprintf("Failed to encode frame: %v", err))
		return
	}
	stream.send("complete", "Rendering completed")
}

// sseStream queues events for a single writer goroutine, the only code that
// touches the ResponseWriter while the handler runs
type sseStream struct {
	ctx    context.Context
	events chan SSEEvent
	done   chan struct{}
}

func openSSEStream(ctx context.Context, w http.ResponseWriter) *sseStream {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Access-Control-Allow-Origin", "*")

	stream := &sseStream{
		ctx:    ctx,
		events: make(chan SSEEvent, 100),
		done:   make(chan struct{}),
	}
	go stream.pump(w)
	return stream
}

// pump writes queued events until the queue closes. After a failed write it
// keeps draining so senders never block on a dead client.
func (st *sseStream) pump(w http.ResponseWriter) {
	defer close(st.done)
	flusher, _ := w.(http.Flusher)
	broken := false
	for {
		select {
		case event, ok := <-st.events:
			if !ok {
				return
			}
			if broken {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				broken = true
				continue
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-st.ctx.Done():
			return
		}
	}
}

// send queues an event, giving up if the client has gone
func (st *sseStream) send(eventType, data string) {
	select {
	case st.events <- SSEEvent{Type: eventType, Data: data}:
	case <-st.ctx.Done():
	}
}

// trySend queues an event only if there is room for it
func (st *sseStream) trySend(eventType, data string) {
	select {
	case st.events <- SSEEvent{Type: eventType, Data: data}:
	default:
	}
}

func (st *sseStream) sendJSON(eventType string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	st.send(eventType, string(data))
	return nil
}

// close stops accepting events and waits for the queued ones to be written
func (st *sseStream) close() {
	close(st.events)
	<-st.done
}

// forwardConsole relays renderer console lines until consoleChan closes.
// Lines are dropped rather than stalling the render when the stream is full.
func forwardConsole(stream *sseStream, consoleChan <-chan ConsoleMessage) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		stream.trySend("console", string(data))
	}
}

// imageToBase64PNG converts a pixel buffer to base64-encoded PNG
func imageToBase64PNG(buffer *renderer.PixelBuffer) (string, error) {
	var buf bytes.Buffer
	if err := buffer.EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
