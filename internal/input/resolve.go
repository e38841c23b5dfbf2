package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// DefaultScheme is prepended to targets that carry no scheme
const DefaultScheme = "https"

// Resolve returns the ordered list of target URLs.
// A non-empty single URL takes precedence; otherwise one URL is read per line from in.
// A nil reader yields no URLs. Every returned URL carries an explicit scheme.
func Resolve(single string, in io.Reader) ([]string, error) {
	var urls []string

	if single = strings.TrimSpace(single); single != "" {
		urls = append(urls, single)
	} else if in != nil {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			urls = append(urls, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}

	for i, u := range urls {
		if Scheme(u) == "" {
			urls[i] = DefaultScheme + "://" + u
		}
	}

	return urls, nil
}

// Scheme returns the scheme of raw, or "" if it has none. The scheme is read
// lexically as the leading [A-Za-z][A-Za-z0-9+.-]* run ending in ':', so a URL
// with a malformed host or escape still reports the scheme it was given.
func Scheme(raw string) string {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return ""
			}
		case c == ':':
			return raw[:i]
		default:
			return ""
		}
	}
	return ""
}

// SetScheme replaces the scheme of raw. Only the scheme prefix changes; the
// rest of raw is kept byte for byte, escapes and non-ASCII text included.
// Input without a scheme gets scheme + ":" prepended.
//
// Examples:
//   - SetScheme("http://example.com/x", "https") -> "https://example.com/x"
//   - SetScheme("https://example.com/a b", "http") -> "http://example.com/a b"
func SetScheme(raw, scheme string) string {
	old := Scheme(raw)
	if old == "" {
		return scheme + ":" + raw
	}
	return scheme + raw[len(old):]
}

// Interactive reports whether f is attached to a terminal (no piped data)
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
