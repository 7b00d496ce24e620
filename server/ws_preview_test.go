package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialPreview(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/preview"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPreviewSocketResolvesEdit(t *testing.T) {
	conn := dialPreview(t, newTestServer(t))

	err := conn.WriteJSON(previewEdit{Template: "You are {{agent}}."})
	if err != nil {
		t.Fatalf("write edit: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp PreviewResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if resp.Text != "You are [Agent Name]." {
		t.Errorf("preview = %q", resp.Text)
	}
}

func TestPreviewSocketDebouncesToLastEdit(t *testing.T) {
	conn := dialPreview(t, newTestServer(t))

	for _, template := range []string{"{{pipeline}}", "{{phase}}", "{{action}}"} {
		if err := conn.WriteJSON(previewEdit{Template: template}); err != nil {
			t.Fatalf("write edit: %v", err)
		}
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp PreviewResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if resp.Text != "[Action Description]" {
		t.Errorf("debounced preview = %q, want the last edit's resolution", resp.Text)
	}
}

func TestPreviewSocketReportsMissingMacro(t *testing.T) {
	conn := dialPreview(t, newTestServer(t))

	if err := conn.WriteJSON(previewEdit{Template: "{{macro:ghost}}"}); err != nil {
		t.Fatalf("write edit: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp PreviewResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if resp.Report.Valid {
		t.Error("missing macro must surface in the streamed report")
	}
	if resp.Text != "{{macro:ghost}}" {
		t.Errorf("unknown macro must stay visible in preview, got %q", resp.Text)
	}
}
