// Package solve talks to the clock solver service. A solve request carries
// the dial values in position order and answers with either the visiting
// order of the dials or a text explaining why there is none.
package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// FailureMessage is the placeholder result shown when no answer was obtained.
const FailureMessage = "Error: Unable to calculate the path."

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Kind tells how a solve attempt ended.
type Kind int

const (
	KindFailed   Kind = iota // transport or protocol failure
	KindUnsolved             // the solver answered with a text
	KindPath                 // the solver answered with a dial order
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindUnsolved:
		return "unsolved"
	default:
		return "failed"
	}
}

// Result is the outcome of one solve request.
type Result struct {
	Kind    Kind
	Path    []int  // dial indices, set for KindPath
	Message string // solver text or FailureMessage
	Err     error  // cause of a KindFailed result
}

// IsPath reports whether r carries a dial order.
func (r Result) IsPath() bool { return r.Kind == KindPath }

// Failed wraps err into a failure result.
func Failed(err error) Result {
	return Result{Kind: KindFailed, Message: FailureMessage, Err: err}
}

var (
	errStatus    = errors.New("solver returned non-success status")
	errMalformed = errors.New("malformed solver response")
)

type request struct {
	Dials []int `json:"dials"`
}

// Client sends solve requests to a solver at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger receiving request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the solver at baseURL. A zero timeout
// leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Solve posts dials to the solver and waits for its answer. Failures are
// reported inside the Result; Solve never returns them separately.
func (c *Client) Solve(ctx context.Context, dials []int) Result {
	if dials == nil {
		dials = []int{}
	}
	body, err := json.Marshal(request{Dials: dials})
	if err != nil {
		return c.fail(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(body))
	if err != nil {
		return c.fail(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("post solve: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(fmt.Errorf("%w: %s", errStatus, resp.Status))
	}

	res := Decode(data)
	if res.Kind == KindFailed {
		c.logger.Printf("solve failed: %v", res.Err)
		return res
	}
	c.logger.Printf("solve %d dials: %s in %s", len(dials), res.Kind, time.Since(start).Round(time.Millisecond))
	return res
}

func (c *Client) fail(err error) Result {
	c.logger.Printf("solve failed: %v", err)
	return Failed(err)
}

// Decode interprets a solver response body. A "result" array of integers is
// a dial order; a "result" string is the solver's explanation for having none.
func Decode(data []byte) Result {
	if !gjson.ValidBytes(data) {
		return Failed(fmt.Errorf("%w: invalid JSON", errMalformed))
	}
	result := gjson.GetBytes(data, "result")
	switch {
	case !result.Exists():
		return Failed(fmt.Errorf("%w: missing result", errMalformed))
	case result.Type == gjson.String:
		return Result{Kind: KindUnsolved, Message: result.String()}
	case result.IsArray():
		elems := result.Array()
		path := make([]int, 0, len(elems))
		for i, e := range elems {
			n, ok := integer(e)
			if !ok {
				return Failed(fmt.Errorf("%w: result[%d] is not an integer: %s", errMalformed, i, e.Raw))
			}
			path = append(path, n)
		}
		return Result{Kind: KindPath, Path: path}
	default:
		return Failed(fmt.Errorf("%w: unexpected result %s", errMalformed, result.Raw))
	}
}

func integer(r gjson.Result) (int, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	f := r.Float()
	n := r.Int()
	if float64(n) != f {
		return 0, false
	}
	return int(n), true
}
