package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// timemapHandler serves a timemap index for every URL except those containing "fail"
func timemapHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimPrefix(r.URL.Path, "/timemap/json/")
		if strings.Contains(target, "fail") {
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		// archive URIs use the http form of the target, as the aggregator does
		httpTarget := "http://" + target[strings.Index(target, "//")+2:]
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
  "original_uri": %q,
  "timemap_index": [
    {"archive_id": "ia", "uri": "http://web.archive.org/web/timemap/link/%s"},
    {"archive_id": "archive.is", "uri": "http://archive.is/timemap/%s"}
  ]
}`, target, httpTarget, httpTarget)
	})
}

func TestTimemaps(t *testing.T) {
	ts := httptest.NewServer(timemapHandler(t))
	defer ts.Close()

	client := NewMementoClient(testConfig("", "", ts.URL+"/timemap/json"), newTestLogger(io.Discard))
	idx, err := client.Timemaps(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Timemaps() error = %v", err)
	}

	want := []string{
		"http://web.archive.org/web/timemap/link/http://example.com",
		"http://archive.is/timemap/http://example.com",
	}
	if got := ExtractArchives(idx); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractArchives() = %v, want %v", got, want)
	}
}

func TestFindActiveArchives(t *testing.T) {
	ts := httptest.NewServer(timemapHandler(t))
	defer ts.Close()

	client := NewMementoClient(testConfig("", "", ts.URL+"/timemap/json"), newTestLogger(io.Discard))
	got := client.FindActiveArchives(context.Background(), []string{"https://example.com", "https://example.org"})

	want := []string{
		"http://archive.is/timemap/",
		"http://web.archive.org/web/timemap/link/",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindActiveArchives() = %v, want %v", got, want)
	}
}

// Archive URIs echo the target as typed, so stripping must not re-encode it
func TestFindActiveArchivesUnescapedInput(t *testing.T) {
	ts := httptest.NewServer(timemapHandler(t))
	defer ts.Close()

	client := NewMementoClient(testConfig("", "", ts.URL+"/timemap/json"), newTestLogger(io.Discard))

	tests := []struct {
		name string
		url  string
	}{
		{"non-ascii", "https://example.com/ü"},
		{"space", "https://example.com/a b"},
	}

	want := []string{
		"http://archive.is/timemap/",
		"http://web.archive.org/web/timemap/link/",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.FindActiveArchives(context.Background(), []string{tt.url})
			if !reflect.DeepEqual(got, want) {
				t.Errorf("FindActiveArchives(%q) = %v, want %v", tt.url, got, want)
			}
		})
	}
}

// The first failure ends discovery and returns whatever was accumulated
func TestFindActiveArchivesPartial(t *testing.T) {
	var requested []string
	inner := timemapHandler(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		inner.ServeHTTP(w, r)
	}))
	defer ts.Close()

	client := NewMementoClient(testConfig("", "", ts.URL+"/timemap/json"), newTestLogger(io.Discard))

	tests := []struct {
		name     string
		urls     []string
		want     []string
		requests int
	}{
		{
			name:     "first fails",
			urls:     []string{"https://fail.example", "https://example.com"},
			want:     []string{},
			requests: 1,
		},
		{
			name:     "second fails",
			urls:     []string{"https://example.com", "https://fail.example", "https://example.org"},
			want:     []string{"http://archive.is/timemap/", "http://web.archive.org/web/timemap/link/"},
			requests: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requested = nil
			got := client.FindActiveArchives(context.Background(), tt.urls)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindActiveArchives() = %v, want %v", got, tt.want)
			}
			if len(requested) != tt.requests {
				t.Errorf("made %d requests, want %d", len(requested), tt.requests)
			}
		})
	}
}

func TestFindActiveArchivesUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	client := NewMementoClient(testConfig("", "", addr), newTestLogger(io.Discard))
	got := client.FindActiveArchives(context.Background(), []string{"https://example.com"})
	if got == nil || len(got) != 0 {
		t.Errorf("FindActiveArchives() = %v, want empty set", got)
	}
}

// TestExtractRootDomain tests domain extraction
func TestExtractRootDomain(t *testing.T) {
	tests := []struct {
		input    string
		wantRoot string
		wantErr  bool
	}{
		{"http://web.archive.org/web/timemap/link/", "archive.org", false},
		{"https://webarchive.nationalarchives.gov.uk/timemap/", "nationalarchives.gov.uk", false},
		{"arquivo.pt", "arquivo.pt", false},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExtractRootDomain(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ExtractRootDomain(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.wantRoot {
				t.Errorf("ExtractRootDomain(%q) = %q, want %q", tt.input, got, tt.wantRoot)
			}
		})
	}
}

func TestArchiveHosts(t *testing.T) {
	archives := []string{
		"http://web.archive.org/web/timemap/link/",
		"https://wayback.archive.org/web/",
		"http://archive.is/timemap/",
		"",
	}
	want := []string{"archive.is", "archive.org"}
	if got := ArchiveHosts(archives); !reflect.DeepEqual(got, want) {
		t.Errorf("ArchiveHosts() = %v, want %v", got, want)
	}
}
