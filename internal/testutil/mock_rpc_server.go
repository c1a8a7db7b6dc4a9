package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/epicchainlabs/epicchain-go/internal/client"
)

// RPCHandler answers one JSON-RPC method. Returning a non-nil RPCError sends
// an error response instead of a result.
type RPCHandler func(params []json.RawMessage) (any, *client.RPCError)

// MockRPCServer is an in-process JSON-RPC node.
type MockRPCServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	calls    map[string]int
}

func NewMockRPCServer(t *testing.T) *MockRPCServer {
	t.Helper()
	s := &MockRPCServer{
		handlers: make(map[string]RPCHandler),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *MockRPCServer) Handle(method string, h RPCHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// HandleResult answers method with a fixed result.
func (s *MockRPCServer) HandleResult(method string, result any) {
	s.Handle(method, func([]json.RawMessage) (any, *client.RPCError) {
		return result, nil
	})
}

func (s *MockRPCServer) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *MockRPCServer) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	h, ok := s.handlers[req.Method]
	s.calls[req.Method]++
	s.mu.Unlock()

	res := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		res["error"] = &client.RPCError{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := h(req.Params); rpcErr != nil {
		res["error"] = rpcErr
	} else {
		res["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
