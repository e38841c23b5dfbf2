package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/urlrevive/internal/config"
	"github.com/thesavant42/urlrevive/internal/models"
)

// rawSuffix selects the archive's unmodified rendering of a capture
const rawSuffix = "id_"

// WaybackClient handles snapshot index queries and playback fetches
type WaybackClient struct {
	httpClient *http.Client
	cfg        *config.Config
	logger     *log.Logger
	handler    *Handler
	throttle   *Throttle
}

// NewWaybackClient creates a new snapshot index client from cfg
func NewWaybackClient(cfg *config.Config, logger *log.Logger) *WaybackClient {
	if logger == nil {
		logger = log.Default()
	}
	return &WaybackClient{
		httpClient: newHTTPClient(cfg),
		cfg:        cfg,
		logger:     logger,
		handler:    NewHandler(logger, cfg.RateLimitBackoff),
		throttle:   NewThrottle(cfg.RateLimitCalls, cfg.RateLimitPeriod, cfg.RateLimitBackoff, logger),
	}
}

// newHTTPClient builds a client whose connections live for a single request.
// ConnectTimeout bounds the dial and TLS handshake, ReadTimeout bounds the wait
// for response headers. There is no cap on the whole exchange, so a large body
// that keeps arriving is read to the end.
func newHTTPClient(cfg *config.Config) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		DisableKeepAlives:     true,
	}
	return &http.Client{Transport: transport}
}

// BuildCDXQuery constructs the query parameters for a single URL lookup.
// When matchCodes is non-empty a filter of the form statuscode:(200|302) is added.
func BuildCDXQuery(target string, limit int, matchCodes []string) url.Values {
	params := url.Values{}
	params.Set("output", "json")
	params.Set("url", target)
	params.Set("limit", strconv.Itoa(limit))

	if len(matchCodes) > 0 {
		params.Set("filter", fmt.Sprintf("statuscode:(%s)", strings.Join(matchCodes, "|")))
	}

	return params
}

// RowsToRecords zips every data row with the header row.
// Format: [[header...], [row1...], [row2...]]
// A nil or empty table yields an empty, non-nil slice.
func RowsToRecords(rows [][]any) []models.Snapshot {
	records := make([]models.Snapshot, 0)
	if len(rows) == 0 {
		return records
	}

	header := rows[0]
	for _, row := range rows[1:] {
		record := make(models.Snapshot, len(header))
		for i := 0; i < len(header) && i < len(row); i++ {
			record[fmt.Sprint(header[i])] = row[i]
		}
		records = append(records, record)
	}

	return records
}

// SnapshotURL builds the playback URL for rec: <base>/<timestamp>[id_]/<original>
func SnapshotURL(base string, rec models.Snapshot, raw bool) string {
	timestamp := rec.Timestamp()
	if raw {
		timestamp += rawSuffix
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), timestamp, rec.Original())
}

// SnapshotURL builds the playback URL against the configured archive
func (c *WaybackClient) SnapshotURL(rec models.Snapshot, raw bool) string {
	return SnapshotURL(c.cfg.WebAPI, rec, raw)
}

// FetchSnapshots queries the snapshot index for one URL and returns its records.
// Errors are returned to the caller untouched; see QueryURL for the logging variant.
func (c *WaybackClient) FetchSnapshots(ctx context.Context, target string, limit int, matchCodes []string) ([]models.Snapshot, error) {
	c.throttle.Wait(ctx)

	rawURL := c.cfg.CDXAPI + "?" + BuildCDXQuery(target, limit, matchCodes).Encode()
	c.logger.Info("Fetching record(s)", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip")

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

	return parseCDXResponse(body)
}

// QueryURL is FetchSnapshots behind the request handler: any failure is
// logged and yields no records, so a batch can carry on with the next URL.
func (c *WaybackClient) QueryURL(ctx context.Context, target string, limit int, matchCodes []string) []models.Snapshot {
	res := Do(ctx, c.handler, target, func(ctx context.Context) ([]models.Snapshot, error) {
		return c.FetchSnapshots(ctx, target, limit, matchCodes)
	})
	return res.Value
}

// QueryBatch lazily queries each URL in turn, yielding the URL with its records.
// URLs that produced no records are skipped.
func (c *WaybackClient) QueryBatch(ctx context.Context, urls []string, limit int, matchCodes []string) iter.Seq2[string, []models.Snapshot] {
	return func(yield func(string, []models.Snapshot) bool) {
		for _, u := range urls {
			records := c.QueryURL(ctx, u, limit, matchCodes)
			if len(records) == 0 {
				continue
			}
			if !yield(u, records) {
				return
			}
		}
	}
}

// FetchContent downloads the body at a playback URL
func (c *WaybackClient) FetchContent(ctx context.Context, playbackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playbackURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp, body); err != nil {
		return "", err
	}

	return string(body), nil
}

// Dump is FetchContent behind the request handler
func (c *WaybackClient) Dump(ctx context.Context, playbackURL string) Result[string] {
	return Do(ctx, c.handler, playbackURL, func(ctx context.Context) (string, error) {
		return c.FetchContent(ctx, playbackURL)
	})
}

// readBody reads the response, decoding gzip when the server sent it compressed
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	contentEncoding := strings.ToLower(resp.Header.Get("Content-Encoding"))
	if strings.Contains(contentEncoding, "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// parseCDXResponse decodes the tabular JSON body. An empty body or a JSON
// null means the index has nothing for the URL.
func parseCDXResponse(body []byte) ([]models.Snapshot, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return RowsToRecords(nil), nil
	}

	var rawRows [][]any
	if err := json.Unmarshal(body, &rawRows); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return RowsToRecords(rawRows), nil
}
