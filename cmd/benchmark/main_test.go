package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSplitList(t *testing.T) {
	got := splitList(" academic, ,casual ,")
	if len(got) != 2 || got[0] != "academic" || got[1] != "casual" {
		t.Errorf("got %v, want [academic casual]", got)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		perMinute int
		want      time.Duration
	}{
		{10, 6 * time.Second},
		{60, time.Second},
		{0, 0},
		{-5, 0},
	}

	for _, tt := range tests {
		if got := interval(tt.perMinute); got != tt.want {
			t.Errorf("interval(%d): got %v, want %v", tt.perMinute, got, tt.want)
		}
	}
}

func TestDiscoverTonesAndBenchmark(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tones":
			w.Write([]byte(`{"free_form":false,"tones":[{"tone":"academic"},{"tone":"casual"}]}`))
		case "/optimize":
			w.Write([]byte(`{"optimized_prompt":"Explain Kubernetes.","model":"m","elapsed_ms":12}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	tones, err := discoverTones(client, srv.URL)
	if err != nil {
		t.Fatalf("discoverTones: %v", err)
	}
	if strings.Join(tones, ",") != "academic,casual" {
		t.Errorf("tones: got %v", tones)
	}

	r := benchmark(client, srv.URL, Samples[0], "academic", 1)
	if r.Error != "" {
		t.Fatalf("benchmark error: %s", r.Error)
	}
	if r.ElapsedMs != 12 || r.Model != "m" || r.OutChars != len("Explain Kubernetes.") {
		t.Errorf("result: got %+v", r)
	}
}

func TestBenchmarkHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Could not connect to Ollama. Make sure it's running."}`))
	}))
	defer srv.Close()

	r := benchmark(&http.Client{Timeout: 5 * time.Second}, srv.URL, Samples[0], "casual", 1)
	if !strings.HasPrefix(r.Error, "HTTP 500") {
		t.Errorf("error: got %q, want HTTP 500 prefix", r.Error)
	}
}
