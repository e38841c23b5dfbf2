package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/urlrevive/internal/config"
	"github.com/thesavant42/urlrevive/internal/input"
	"github.com/thesavant42/urlrevive/internal/models"
	"golang.org/x/net/publicsuffix"
)

// MementoClient discovers which archives hold copies of a URL
type MementoClient struct {
	httpClient *http.Client
	cfg        *config.Config
	logger     *log.Logger
	handler    *Handler
}

// NewMementoClient creates a new Memento aggregator client from cfg
func NewMementoClient(cfg *config.Config, logger *log.Logger) *MementoClient {
	if logger == nil {
		logger = log.Default()
	}
	return &MementoClient{
		httpClient: newHTTPClient(cfg),
		cfg:        cfg,
		logger:     logger,
		handler:    NewHandler(logger, cfg.RateLimitBackoff),
	}
}

// Timemaps fetches the timemap index for target from <MementoAPI>/<target>
func (c *MementoClient) Timemaps(ctx context.Context, target string) (*models.TimemapIndex, error) {
	reqURL := strings.TrimSuffix(c.cfg.MementoAPI, "/") + "/" + target

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, body); err != nil {
		return nil, err
	}

	var idx models.TimemapIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &idx, nil
}

// ExtractArchives returns the archive URI of every timemap entry
func ExtractArchives(idx *models.TimemapIndex) []string {
	if idx == nil {
		return nil
	}
	archives := make([]string, 0, len(idx.TimemapIndex))
	for _, tm := range idx.TimemapIndex {
		archives = append(archives, tm.URI)
	}
	return archives
}

// FindActiveArchives collects the distinct archive identifiers for a batch of URLs.
// Each archive URI has the http form of its input URL stripped, so
// "http://web.archive.org/web/timemap/link/http://example.com" becomes
// "http://web.archive.org/web/timemap/link/".
//
// The first failure stops discovery for the rest of the batch and the set
// accumulated so far is returned. The snapshot path skips only the failing URL instead.
func (c *MementoClient) FindActiveArchives(ctx context.Context, urls []string) []string {
	active := make(map[string]struct{})

	for i, u := range urls {
		res := Do(ctx, c.handler, u, func(ctx context.Context) (*models.TimemapIndex, error) {
			return c.Timemaps(ctx, u)
		})
		if !res.OK() {
			c.logger.Warn("Archive discovery stopped", "url", u, "kind", res.Kind(), "remaining", len(urls)-1-i)
			break
		}

		httpURL := input.SetScheme(u, "http")
		for _, archive := range ExtractArchives(res.Value) {
			active[strings.ReplaceAll(archive, httpURL, "")] = struct{}{}
		}
	}

	archives := make([]string, 0, len(active))
	for a := range active {
		archives = append(archives, a)
	}
	slices.Sort(archives)
	return archives
}

// ExtractRootDomain extracts the registrable domain from a URL or hostname
// Uses publicsuffix to handle complex TLDs like .co.uk
// Examples:
//   - "http://web.archive.org/web/timemap/link/" -> "archive.org"
//   - "https://archive.today/timemap/" -> "archive.today"
//   - "arquivo.pt" -> "arquivo.pt"
func ExtractRootDomain(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty input")
	}

	host := raw
	if strings.Contains(raw, "://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		host = parsed.Hostname()
	}
	host = strings.TrimSuffix(host, ".")

	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("failed to extract root domain: %w", err)
	}
	return root, nil
}

// ArchiveHosts reduces archive identifiers to their distinct registrable domains.
// Identifiers that do not resolve to a domain are skipped.
func ArchiveHosts(archives []string) []string {
	seen := make(map[string]struct{})
	var hosts []string
	for _, a := range archives {
		root, err := ExtractRootDomain(a)
		if err != nil {
			continue
		}
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		hosts = append(hosts, root)
	}
	slices.Sort(hosts)
	return hosts
}
