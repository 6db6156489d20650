package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// HAEClient queries the Health Auto Export TCP server (JSON-RPC 2.0) for
// workouts. Each call opens a new connection because the server closes the
// socket after responding.
type HAEClient struct {
	addr    string
	timeout time.Duration
	pause   time.Duration
}

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const haeDateFormat = "2006-01-02 15:04:05 -0700"

// NewHAEClient creates a new client for the HAE TCP server.
func NewHAEClient(host string, port int) *HAEClient {
	return &HAEClient{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: 120 * time.Second,
		pause:   3 * time.Second,
	}
}

// QueryWorkouts returns the workouts between start and end in REST API
// payload form. Routes and metadata are not requested.
func (c *HAEClient) QueryWorkouts(ctx context.Context, start, end time.Time) (json.RawMessage, error) {
	return c.callTool(ctx, "workouts", map[string]any{
		"start":           start.Format(haeDateFormat),
		"end":             end.Format(haeDateFormat),
		"includeMetadata": false,
		"includeRoutes":   false,
	})
}

func (c *HAEClient) callTool(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	reqData, err := json.Marshal(jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "callTool",
		Params:  callToolParams{Name: name, Arguments: args},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.addr, err)
	}
	defer conn.Close() //nolint:errcheck

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("setting deadline: %w", err)
	}

	// newline-delimited framing; the response ends at EOF
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}
	respData, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(respData) == 0 {
		return nil, fmt.Errorf("empty response from %s", c.addr)
	}

	var resp jsonRPCResponse
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("HAE error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Result, nil
}

// waitForServer polls until the HAE app accepts connections again. The app
// tends to crash on large queries and restarts within seconds.
func (c *HAEClient) waitForServer(ctx context.Context, log *slog.Logger) bool {
	for i := range 10 {
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", c.addr)
		if err == nil {
			conn.Close() //nolint:errcheck
			return true
		}
		log.Info("waiting for HAE server to come back...", "attempt", i+1)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.pause):
		}
	}
	return false
}

// QueryWorkoutsWithRetry wraps QueryWorkouts with retry logic for server crashes.
func (c *HAEClient) QueryWorkoutsWithRetry(ctx context.Context, start, end time.Time, log *slog.Logger) (json.RawMessage, error) {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			log.Info("retrying workout query", "attempt", attempt+1)
			if !c.waitForServer(ctx, log) {
				return nil, fmt.Errorf("server did not recover: %w", lastErr)
			}
		}
		result, err := c.QueryWorkouts(ctx, start, end)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Warn("query failed, will retry", "error", err)
	}
	return nil, lastErr
}
