package ui

import (
	"bytes"
	"testing"
)

// Output to a non-terminal carries no escape sequences
func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Snapshot("https://web.archive.org/web/20200101000000id_/http://example.com", "200")
	p.Snapshot("https://web.archive.org/web/20200101000000id_/http://example.com/gone", "404")
	p.Archive("http://archive.is/timemap/")
	p.Line("<html></html>")

	want := "https://web.archive.org/web/20200101000000id_/http://example.com [200]\n" +
		"https://web.archive.org/web/20200101000000id_/http://example.com/gone [404]\n" +
		"http://archive.is/timemap/\n" +
		"<html></html>\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
