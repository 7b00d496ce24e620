package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/promptloom/promptloom/composer"
	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/prompt"
)

// WebSocket timeout constants following Gorilla best practices
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Incoming edits above this rate are dropped; the preview is best-effort and
// the debounce collapses bursts anyway.
const (
	previewRateLimit = rate.Limit(20)
	previewRateBurst = 5
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// previewEdit is one client keystroke batch: the full template text.
type previewEdit struct {
	Template string `json:"template"`
}

// handlePreviewSocket handles GET /ws/preview. The client streams template
// text as it is edited; the server answers with resolved previews after a
// quiet window, newest edit winning.
func (s *Server) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnw("WebSocket upgrade failed",
			logger.FieldError, err)
		return
	}

	logger.Debugw("Preview socket connected",
		"remote", conn.RemoteAddr().String())

	out := make(chan PreviewResponse, 8)
	done := make(chan struct{})
	go s.previewWriteLoop(conn, out, done)
	s.previewReadLoop(conn, out)
	close(done)
}

// previewReadLoop consumes edits until the connection closes. Each accepted
// edit re-arms the debouncer; the resolved preview is handed to the writer.
func (s *Server) previewReadLoop(conn *websocket.Conn, out chan<- PreviewResponse) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	limiter := rate.NewLimiter(previewRateLimit, previewRateBurst)
	debouncer := composer.NewDebouncer(composer.DefaultPreviewDebounce)
	defer debouncer.Stop()

	for {
		var edit previewEdit
		if err := conn.ReadJSON(&edit); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnw("Preview socket read error",
					logger.FieldError, err)
			}
			return
		}
		if !limiter.Allow() {
			continue
		}

		template := edit.Template
		debouncer.Trigger(func() {
			text, report := s.resolver.Preview(template, prompt.NewPreviewContext(), prompt.ResolveOptions{
				PreserveUnresolved: true,
				PassThroughNative:  true,
			})
			select {
			case out <- PreviewResponse{Text: text, Report: report}:
			default:
				// Writer backed up; the next edit will supersede this preview
			}
		})
	}
}

// previewWriteLoop owns all writes on the connection: resolved previews and
// keepalive pings.
func (s *Server) previewWriteLoop(conn *websocket.Conn, out <-chan PreviewResponse, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case resp := <-out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
