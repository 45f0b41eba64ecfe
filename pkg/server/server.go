package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/protocol"
	"github.com/richard-senior/spiro/pkg/transport"
)

// Name and Version are reported to clients in the initialize response
const (
	Name    = "spiro"
	Version = "1.0.0"
)

// Server answers JSON-RPC requests from a transport, dispatching tools/call
// to registered tools
type Server struct {
	transport transport.Transport
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
	toolFuncs map[string]HandlerFunc
	mu        sync.Mutex
	stopping  bool
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params any) (any, error)

// New creates a server with the built-in methods registered and no tools
func New(t transport.Transport) *Server {
	s := &Server{
		transport: t,
		handlers:  make(map[string]HandlerFunc),
		toolFuncs: make(map[string]HandlerFunc),
	}
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodShutdown)] = s.handleShutdown
	return s
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.toolFuncs[tool.Name]; !exists {
		s.tools = append(s.tools, tool)
	}
	s.toolFuncs[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Tool(nil), s.tools...)
}

// Start processes requests until the client disconnects, asks for shutdown
// or the process is signalled
func (s *Server) Start() error {
	logger.Info("Starting MCP server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests reads and answers requests in order. It returns nil when
// the client disconnects or after answering shutdown.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, transport.ErrMalformed) {
				resp := protocol.NewJsonRpcErrorResponse(protocol.ErrInvalidRequest, err.Error(), nil, nil)
				if err := s.transport.WriteResponse(resp); err != nil {
					return err
				}
				continue
			}
			return err
		}

		// nil means the request was a notification
		resp := s.handleRequest(req)
		if resp != nil {
			if err := s.transport.WriteResponse(resp); err != nil {
				return err
			}
		}

		s.mu.Lock()
		stopping := s.stopping
		s.mu.Unlock()
		if stopping {
			logger.Info("Shutdown requested by client")
			return nil
		}
	}
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)
	if logger.GetLevel() == logger.DEBUG {
		logger.Debug("Full request:", string(req.Params))
	}

	if req.IsNotification() || strings.HasPrefix(req.Method, "notifications/") {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	handler := s.handlers[req.Method]
	if handler == nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil, req.ID)
	}

	result, err := handler(req.Params)
	if err != nil {
		var rpcErr *protocol.JsonRpcError
		if errors.As(err, &rpcErr) {
			return protocol.NewJsonRpcErrorResponse(rpcErr.Code, rpcErr.Message, rpcErr.Data, req.ID)
		}
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal, err.Error(), nil, req.ID)
	}

	resp, err := protocol.NewJsonRpcResponse(result, req.ID)
	if err != nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal,
			"Failed to marshal result: "+err.Error(), nil, req.ID)
	}
	if logger.GetLevel() == logger.DEBUG {
		logger.Debug("Full response:", string(resp.Result))
	}
	return resp
}

// decodeParams unmarshals raw request params into v. Absent params leave v untouched.
func decodeParams(params any, v any) error {
	raw, ok := params.(json.RawMessage)
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

// handleInitialize answers with the client's protocol version when it sent
// one, and advertises tools when any are registered
func (s *Server) handleInitialize(params any) (any, error) {
	var initParams struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := decodeParams(params, &initParams); err != nil {
		return nil, err
	}
	version := initParams.ProtocolVersion
	if version == "" {
		version = protocol.DefaultProtocolVersion
	}

	capabilities := map[string]any{}
	if len(s.GetTools()) > 0 {
		capabilities["tools"] = map[string]any{"listChanged": false}
	}
	logger.Info("Initializing with protocol version", version)

	type serverInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	return struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      serverInfo     `json:"serverInfo"`
	}{
		ProtocolVersion: version,
		Capabilities:    capabilities,
		ServerInfo:      serverInfo{Name: Name, Version: Version},
	}, nil
}

func (s *Server) handlePing(params any) (any, error) {
	return struct{}{}, nil
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params any) (any, error) {
	return struct {
		Tools []protocol.Tool `json:"tools"`
	}{
		Tools: s.GetTools(),
	}, nil
}

// handleToolsCall runs a tool. A failing tool is reported inside the result
// with isError set, an unknown tool is a protocol error.
func (s *Server) handleToolsCall(params any) (any, error) {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := decodeParams(params, &call); err != nil {
		return nil, err
	}
	logger.Info("Tool call requested for:", call.Name)

	s.mu.Lock()
	handler := s.toolFuncs[call.Name]
	s.mu.Unlock()
	if handler == nil {
		return nil, &protocol.JsonRpcError{
			Code:    protocol.ErrInvalidParams,
			Message: fmt.Sprintf("tool not found: %s", call.Name),
		}
	}

	result, err := handler(call.Arguments)
	if err != nil {
		logger.Warn("Tool failed:", call.Name, err)
		r := protocol.NewTextResult(err.Error())
		r.IsError = true
		return r, nil
	}
	return result, nil
}

func (s *Server) handleShutdown(params any) (any, error) {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()
	return struct{}{}, nil
}
