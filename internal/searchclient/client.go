// Package searchclient is the transport layer for the remote ranked
// candidate-search endpoint. It owns request construction, response
// decoding and error classification; request sequencing and supersession
// live in the reactor, which is the only caller.
package searchclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/query"
)

// Failure taxonomy for remote searches. Transport errors persist until the
// network recovers; server errors are transient. Both collapse into a single
// user-visible message via Classify.
var (
	ErrTransport = errors.New("search service unreachable")
	ErrServer    = errors.New("search service returned an error")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the decoded search payload. Facets may be nil when the
// backend omits its facet block; callers re-derive a summary client-side.
type Response struct {
	Results    []candidate.Candidate  `json:"results"`
	TotalCount int                    `json:"totalCount"`
	Query      string                 `json:"query"`
	Facets     candidate.FacetSummary `json:"facets,omitempty"`
}

// Client issues ranked-search requests. Construct one per endpoint and pass
// it down explicitly; there is no package-level instance.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
}

// New creates a Client for the given endpoint. A zero timeout defaults to
// 15s. The limiter smooths bursts of debounced searches so rapid retyping
// cannot hammer the backend; 5 req/s with a burst of 5 is far above what
// the debounce gate lets through anyway.
func New(endpoint, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(5), 5),
	}
}

// Search executes one ranked search. Scalar facet axes serialize as single
// parameters, multi-valued axes as repeated parameters. The caller is
// responsible for minimum-length gating; this method sends whatever it is
// given.
func (c *Client) Search(ctx context.Context, q query.Query) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.URL.RawQuery = requestParams(q).Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Scout/1.0 (https://github.com/nhoward/scout)")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: HTTP %d %s", ErrServer, resp.StatusCode, resp.Status)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return &out, nil
}

// requestParams builds the outbound query string. Empty facet axes are
// omitted entirely.
func requestParams(q query.Query) url.Values {
	params := url.Values{}
	params.Set("query", q.Text)
	params.Set("topK", strconv.Itoa(q.TopK))
	params.Set("minScore", strconv.FormatFloat(q.MinScore, 'f', -1, 64))
	if q.Facets.Location != "" {
		params.Set("location", q.Facets.Location)
	}
	if q.Facets.Availability != "" {
		params.Set("availability", q.Facets.Availability)
	}
	for _, v := range q.Facets.Technologies {
		params.Add("technologies", v)
	}
	for _, v := range q.Facets.Skills {
		params.Add("skills", v)
	}
	for _, v := range q.Facets.Certifications {
		params.Add("certifications", v)
	}
	if q.Facets.MinYears > 0 {
		params.Set("minYearsExperience", strconv.Itoa(q.Facets.MinYears))
	}
	return params
}

// Classify turns a search failure into the single human-readable error slot
// shown beside an empty result list.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "Search service unreachable. Check your connection and try again."
	case errors.Is(err, ErrServer):
		return "Search failed on the server. Try again in a moment."
	default:
		return "Search failed: " + err.Error()
	}
}
