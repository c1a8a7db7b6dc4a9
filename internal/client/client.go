package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const jsonRPCVersion = "2.0"

// Options tunes the HTTP transport.
type Options struct {
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	Headers      map[string]string
}

// DefaultOptions match the retry policy used by the CLI.
func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		RetryCount:   3,
		RetryWait:    2 * time.Second,
		RetryMaxWait: 10 * time.Second,
	}
}

// Client talks JSON-RPC 2.0 to a node over HTTP.
type Client struct {
	rest     *resty.Client
	endpoint string

	mu      sync.Mutex
	network *uint32
}

func New(endpoint string, opts Options) *Client {
	rest := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryMaxWait)
	for k, v := range opts.Headers {
		rest.SetHeader(k, v)
	}
	return &Client{rest: rest, endpoint: endpoint}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call invokes method and decodes the result into result, which may be nil.
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	req := request{JSONRPC: jsonRPCVersion, ID: uuid.NewString(), Method: method, Params: params}

	var res response
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		ForceContentType("application/json").
		Post("")
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: unexpected HTTP status %s", method, resp.Status())
	}
	if res.ID != req.ID {
		return fmt.Errorf("%s: response id %q does not match request id %q", method, res.ID, req.ID)
	}
	if res.Error != nil {
		return res.Error
	}

	slog.Debug("RPC call succeeded", "method", method, "id", req.ID)
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(res.Result, result); err != nil {
		return fmt.Errorf("%s: failed to decode result: %w", method, err)
	}
	return nil
}
