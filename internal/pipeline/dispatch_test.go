package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestEncodeBody(t *testing.T) {
	tests := []struct {
		name        string
		payload     any
		contentType string
		want        string
		wantErr     bool
	}{
		{
			name:        "nil payload",
			payload:     nil,
			contentType: "application/json;charset=utf-8",
			want:        "",
		},
		{
			name:        "raw json passes through",
			payload:     json.RawMessage(`{"pre":"encoded"}`),
			contentType: "application/json;charset=utf-8",
			want:        `{"pre":"encoded"}`,
		},
		{
			name:        "bytes pass through",
			payload:     []byte{0x01, 0x02},
			contentType: "application/octet-stream",
			want:        "\x01\x02",
		},
		{
			name:        "string passes through",
			payload:     "plain text",
			contentType: "text/plain",
			want:        "plain text",
		},
		{
			name:        "reader drained",
			payload:     strings.NewReader("streamed"),
			contentType: "application/octet-stream",
			want:        "streamed",
		},
		{
			name:        "struct marshals for json type",
			payload:     struct{ Name string `json:"name"` }{Name: "rex"},
			contentType: "application/json;charset=utf-8",
			want:        `{"name":"rex"}`,
		},
		{
			name:        "map marshals for json type",
			payload:     map[string]any{"n": 1},
			contentType: "application/json;charset=utf-8",
			want:        `{"n":1}`,
		},
		{
			name:        "number renders as text otherwise",
			payload:     42,
			contentType: "text/plain",
			want:        "42",
		},
		{
			name:        "unmarshalable json payload",
			payload:     map[string]any{"ch": make(chan int)},
			contentType: "application/json;charset=utf-8",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeBody(tt.payload, tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Errorf("EncodeBody() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("EncodeBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatch_GET(t *testing.T) {
	var gotMethod, gotPath, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("X-Request-ID", "req-1")

	wire, err := Dispatch(context.Background(), server.Client(), "GET", server.URL+"/pets", nil, header)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if gotMethod != "GET" {
		t.Errorf("server saw method %q, want GET", gotMethod)
	}
	if gotPath != "/pets" {
		t.Errorf("server saw path %q, want /pets", gotPath)
	}
	if gotHeader != "req-1" {
		t.Errorf("server saw X-Request-ID %q, want req-1", gotHeader)
	}

	if wire.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", wire.Status)
	}
	if string(wire.Body) != `{"ok":true}` {
		t.Errorf("Body = %q, want raw bytes", wire.Body)
	}
	if wire.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Header[Content-Type] = %q, want application/json", wire.Header.Get("Content-Type"))
	}
	if wire.Request == nil || wire.Response == nil {
		t.Error("Wire must reference the originating request and response")
	}
}

func TestDispatch_POSTBody(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("Content-Type", "application/json;charset=utf-8")

	wire, err := Dispatch(context.Background(), server.Client(), "POST", server.URL+"/pets", []byte(`{"name":"rex"}`), header)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if string(gotBody) != `{"name":"rex"}` {
		t.Errorf("server saw body %q", gotBody)
	}
	if gotContentType != "application/json;charset=utf-8" {
		t.Errorf("server saw Content-Type %q", gotContentType)
	}
	if wire.Status != http.StatusCreated {
		t.Errorf("Status = %d, want 201", wire.Status)
	}
}

func TestDispatch_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	wire, err := Dispatch(context.Background(), server.Client(), "GET", server.URL, nil, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v, want nil for received response", err)
	}
	if wire.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", wire.Status)
	}
	if string(wire.Body) != "boom" {
		t.Errorf("Body = %q, want %q", wire.Body, "boom")
	}
}

func TestDispatch_NetworkErrorUnwrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := Dispatch(context.Background(), &http.Client{Timeout: time.Second}, "GET", addr, nil, nil)
	if err == nil {
		t.Fatal("Dispatch() expected connection error")
	}

	// The transport error must come back exactly as the client produced it.
	if _, ok := err.(*url.Error); !ok {
		t.Errorf("Dispatch() error = %T, want *url.Error as-is", err)
	}
}

func TestDispatch_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := Dispatch(ctx, server.Client(), "GET", server.URL, nil, nil)
	if err == nil {
		t.Fatal("Dispatch() expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Dispatch() error = %v, want context.Canceled", err)
	}
}
