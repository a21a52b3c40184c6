package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/KaramelBytes/sheetdash/internal/parser"
)

// DefaultTimeout bounds a whole remote fetch, body included.
const DefaultTimeout = 30 * time.Second

// ExampleURLs are public CSV files that load without credentials.
var ExampleURLs = []struct{ Name, URL string }{
	{"Investor flow of funds (weekly)", "https://raw.githubusercontent.com/datasets/investor-flow-of-funds-us/master/data/weekly.csv"},
	{"Apple stock 2014", "https://raw.githubusercontent.com/plotly/datasets/master/2014_apple_stock.csv"},
}

// Payload is the body of a remote response and its declared content type.
type Payload struct {
	URL         string
	ContentType string
	Body        []byte
}

// RemoteSource fetches spreadsheet, CSV or JSON content over HTTP.
type RemoteSource struct {
	Client *http.Client
	Logger *slog.Logger
}

// NewRemoteSource returns a RemoteSource whose client gives up after timeout
// (DefaultTimeout when timeout <= 0).
func NewRemoteSource(timeout time.Duration) *RemoteSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RemoteSource{Client: &http.Client{Timeout: timeout}, Logger: slog.Default()}
}

// Load performs one GET. A blank URL fails before any network activity; every
// transport failure or non-2xx status is a *dataset.NetworkError. There are no
// retries.
func (s *RemoteSource) Load(ctx context.Context, rawURL string) (Payload, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return Payload{}, &dataset.InvalidInputError{Field: "url", Msg: "URL must not be empty"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, &dataset.NetworkError{URL: url, Err: err}
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Payload{}, &dataset.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Payload{}, &dataset.NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b))),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, &dataset.NetworkError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	p := Payload{URL: url, ContentType: resp.Header.Get("Content-Type"), Body: body}
	s.logger().Debug("remote fetched",
		slog.String("url", url),
		slog.String("content_type", p.ContentType),
		slog.Int("bytes", len(body)))
	return p, nil
}

// LoadRecords fetches url and decodes it: application/json takes the JSON
// path, anything else the spreadsheet path (which also reads CSV).
func (s *RemoteSource) LoadRecords(ctx context.Context, rawURL string) ([]dataset.Record, error) {
	p, err := s.Load(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return parser.Decode(p.Body, parser.Hint{ContentType: p.ContentType, Kind: dataset.SourceRemote})
}

func (s *RemoteSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
