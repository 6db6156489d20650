package upload

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"
)

// startMockTCPServer starts a TCP server that reads a request and sends back a
// fixed response, then closes the connection. Returns the listener port.
func startMockTCPServer(t *testing.T, response []byte) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4096)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		conn.Read(buf) //nolint:errcheck

		conn.Write(response) //nolint:errcheck
	}()

	return port
}

// TestCallTool verifies that a successful JSON-RPC response returns the result.
func TestCallTool(t *testing.T) {
	resp := jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      1,
		Result:  json.RawMessage(`{"data":{"workouts":[]}}`),
	}
	respBytes, _ := json.Marshal(resp)

	port := startMockTCPServer(t, respBytes)

	client := NewHAEClient("127.0.0.1", port)
	client.timeout = 5 * time.Second

	result, err := client.callTool(context.Background(), "workouts", map[string]any{
		"start": "2025-01-01 00:00:00 +0000",
		"end":   "2025-01-31 00:00:00 +0000",
	})
	if err != nil {
		t.Fatalf("callTool returned error: %v", err)
	}

	if string(result) != `{"data":{"workouts":[]}}` {
		t.Errorf("unexpected result: %s", result)
	}
}

// TestCallToolError verifies that a JSON-RPC error response is surfaced.
func TestCallToolError(t *testing.T) {
	resp := jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      1,
		Error:   &jsonRPCError{Code: -32600, Message: "Invalid request"},
	}
	respBytes, _ := json.Marshal(resp)

	port := startMockTCPServer(t, respBytes)

	client := NewHAEClient("127.0.0.1", port)
	client.timeout = 5 * time.Second

	_, err := client.callTool(context.Background(), "workouts", map[string]any{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := err.Error(); got != "HAE error -32600: Invalid request" {
		t.Errorf("unexpected error: %s", got)
	}
}

// TestQueryWorkouts verifies the JSON-RPC request structure for workouts.
func TestQueryWorkouts(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port

	var receivedReq jsonRPCRequest
	done := make(chan struct{})

	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4096)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _ := conn.Read(buf)

		json.Unmarshal(buf[:n], &receivedReq) //nolint:errcheck

		resp := jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      1,
			Result:  json.RawMessage(`{"data":{"workouts":[]}}`),
		}
		respBytes, _ := json.Marshal(resp)
		conn.Write(respBytes) //nolint:errcheck
	}()

	client := NewHAEClient("127.0.0.1", port)
	client.timeout = 5 * time.Second

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	if _, err := client.QueryWorkouts(context.Background(), start, end); err != nil {
		t.Fatalf("QueryWorkouts returned error: %v", err)
	}

	<-done

	paramsBytes, _ := json.Marshal(receivedReq.Params)
	var params callToolParams
	json.Unmarshal(paramsBytes, &params) //nolint:errcheck

	if receivedReq.Method != "callTool" {
		t.Errorf("expected method callTool, got %s", receivedReq.Method)
	}
	if params.Name != "workouts" {
		t.Errorf("expected tool name workouts, got %s", params.Name)
	}
	if params.Arguments["start"] != "2025-01-01 00:00:00 +0000" {
		t.Errorf("unexpected start %v", params.Arguments["start"])
	}
	if params.Arguments["includeRoutes"] != false {
		t.Errorf("expected includeRoutes=false, got %v", params.Arguments["includeRoutes"])
	}
}

// TestConnectionRefused verifies that a connection error is returned gracefully.
func TestConnectionRefused(t *testing.T) {
	client := NewHAEClient("127.0.0.1", 1)
	client.timeout = 1 * time.Second

	_, err := client.callTool(context.Background(), "workouts", map[string]any{})
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
}

// TestEmptyResponse verifies that an empty response is handled as an error.
func TestEmptyResponse(t *testing.T) {
	port := startMockTCPServer(t, []byte{})

	client := NewHAEClient("127.0.0.1", port)
	client.timeout = 5 * time.Second

	_, err := client.callTool(context.Background(), "workouts", map[string]any{})
	if err == nil {
		t.Fatal("expected error for empty response")
	}
}

// TestSyncState verifies the sync_state table operations.
func TestSyncState(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	val, err := state.GetSyncState(LastTCPSyncKey)
	if err != nil {
		t.Fatalf("GetSyncState returned error: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty string, got %q", val)
	}

	if err := state.SetSyncState(LastTCPSyncKey, "2025-02-01"); err != nil {
		t.Fatalf("SetSyncState returned error: %v", err)
	}
	if err := state.SetSyncState(LastTCPSyncKey, "2025-03-01"); err != nil {
		t.Fatalf("SetSyncState returned error: %v", err)
	}

	val, err = state.GetSyncState(LastTCPSyncKey)
	if err != nil {
		t.Fatalf("GetSyncState returned error: %v", err)
	}
	if val != "2025-03-01" {
		t.Errorf("expected 2025-03-01, got %q", val)
	}
}
