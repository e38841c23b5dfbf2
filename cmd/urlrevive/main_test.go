package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"200", []string{"200"}},
		{"200,302,404", []string{"200", "302", "404"}},
		{" 200, 302 ,,404 ", []string{"200", "302", "404"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitCodes(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitCodes(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpenInput(t *testing.T) {
	in, closeIn, err := openInput("example.com", "-")
	if err != nil || in != nil {
		t.Errorf("openInput with single URL = %v, %v; want nil reader", in, err)
	}
	closeIn()

	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	in, closeIn, err = openInput("", path)
	if err != nil || in == nil {
		t.Fatalf("openInput(file) = %v, %v", in, err)
	}
	closeIn()

	if _, _, err := openInput("", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
