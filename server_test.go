package marey

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theoremus-urban-solutions/marey/config"
	"github.com/theoremus-urban-solutions/marey/wire"
)

func postDiagram(t *testing.T, s *Server, query string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/diagram"+query, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/cbor")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp, b
}

func envelope(t *testing.T, req *wire.RequestRecord) []byte {
	t.Helper()
	data, err := wire.EncodeEnvelope(lineNetwork(t), encodeRequest(t, req))
	if err != nil {
		t.Fatalf("EncodeEnvelope failed: %v", err)
	}
	return data
}

func TestServer_Diagram(t *testing.T) {
	s := NewServer(NewEngine(config.DrawingConfig{UnitLength: 1}, 8))
	body := envelope(t, morningRequest())

	tests := []struct {
		name        string
		query       string
		contentType string
	}{
		{name: "default cbor", query: "", contentType: "application/cbor"},
		{name: "json summary", query: "?format=json&group=summary", contentType: "application/json"},
		{name: "json filtered", query: "?format=json&train=ic", contentType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, b := postDiagram(t, s, tt.query, body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, b)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, ct)
			}
			if len(b) == 0 {
				t.Error("Empty body")
			}
		})
	}

	_, b := postDiagram(t, s, "?format=json&train=ic", body)
	var doc struct {
		Trains []struct {
			ID string `json:"id"`
		} `json:"trains"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Trains) != 1 || doc.Trains[0].ID != "IC 1" {
		t.Errorf("Expected only IC 1, got %+v", doc.Trains)
	}

	t.Logf("✓ Served %d bytes of filtered JSON", len(b))
}

func TestServer_DiagramErrors(t *testing.T) {
	s := NewServer(NewEngine(config.DrawingConfig{UnitLength: 1}, 0))

	missing := morningRequest()
	missing.StationsToDraw = []string{"A", "Q"}

	tests := []struct {
		name       string
		query      string
		body       []byte
		wantStatus int
		wantID     string
	}{
		{name: "empty body", body: nil, wantStatus: http.StatusBadRequest},
		{name: "not an envelope", body: lineNetwork(t), wantStatus: http.StatusBadRequest},
		{name: "unknown format", query: "?format=xml", body: envelope(t, morningRequest()), wantStatus: http.StatusBadRequest},
		{name: "unknown station", body: envelope(t, missing), wantStatus: http.StatusNotFound, wantID: "Q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, b := postDiagram(t, s, tt.query, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, resp.StatusCode, b)
			}
			var payload errorPayload
			if err := json.Unmarshal(b, &payload); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if payload.Error == "" {
				t.Error("Error message should be set")
			}
			if payload.ID != tt.wantID {
				t.Errorf("Expected offending id %q, got %q", tt.wantID, payload.ID)
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	s := NewServer(NewEngine(config.DrawingConfig{}, 4))

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.StatusCode != http.StatusOK || health.Status != "ok" {
		t.Errorf("Expected ok, got %d %+v", resp.StatusCode, health)
	}
}
