package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/protocol"
)

// Transport defines the interface for communication methods
type Transport interface {
	ReadRequest() (*protocol.JsonRpcRequest, error)
	WriteResponse(*protocol.JsonRpcResponse) error
}

// ErrMalformed wraps a message that was read completely but is not a valid request.
// The stream is still usable after it.
var ErrMalformed = errors.New("malformed request")

// StreamTransport exchanges newline separated JSON-RPC messages over a reader/writer pair
type StreamTransport struct {
	decoder *json.Decoder
	mu      sync.Mutex
	writer  *bufio.Writer
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StreamTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

func NewStreamTransport(r io.Reader, w io.Writer) *StreamTransport {
	return &StreamTransport{
		decoder: json.NewDecoder(bufio.NewReader(r)),
		writer:  bufio.NewWriter(w),
	}
}

// ReadRequest blocks until a complete JSON value arrives. io.EOF means the
// client disconnected.
func (t *StreamTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	logger.Debug("Waiting for request...")

	var raw json.RawMessage
	if err := t.decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("Received EOF, client disconnected")
			return nil, io.EOF
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			// the decoder cannot resynchronise after a syntax error
			return nil, fmt.Errorf("unreadable stream: %w", err)
		}
		return nil, err
	}
	logger.Debug("Received raw request:", string(raw))

	request, err := protocol.ParseJsonRpcRequest(raw)
	if err != nil {
		logger.Error("Failed to parse JSON-RPC request:", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return request, nil
}

// WriteResponse writes a JSON-RPC response followed by a newline
func (t *StreamTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		return err
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.writer.Write(responseBytes); err != nil {
		logger.Error("Failed to write response:", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("Failed to flush response:", err)
		return err
	}
	logger.Debug("Response sent", len(responseBytes))
	return nil
}
