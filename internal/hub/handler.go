package hub

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/specialistvlad/graphcompiler/internal/config"
	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
	"github.com/specialistvlad/graphcompiler/internal/dag"
	"github.com/specialistvlad/graphcompiler/internal/graph"
	"github.com/specialistvlad/graphcompiler/internal/plan"
)

// Error kinds reported to the editor.
const (
	KindStructural     = "structural"
	KindCyclic         = "cyclic"
	KindUnboundInput   = "unbound_input"
	KindMissingInput   = "missing_input"
	KindNodeExecution  = "node_execution"
	KindInvalidRequest = "invalid_request"
)

// Request is the payload of an evaluate event.
type Request struct {
	ID     string              `json:"id"`
	Graph  *config.Description `json:"graph"`
	Inputs map[string]any      `json:"inputs"`
}

// Response is the payload of a result event.
type Response struct {
	ID      string         `json:"id"`
	Outputs map[string]any `json:"outputs"`
	Error   *ErrorInfo     `json:"error,omitempty"`
}

// Progress is the payload of a progress event.
type Progress struct {
	ID     string  `json:"id"`
	Done   float64 `json:"done"`
	NodeID string  `json:"node_id"`
}

// ErrorInfo describes a failed evaluation.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	NodeID  string `json:"node_id,omitempty"`
}

// Compiler turns descriptions into plans; *plancache.Cache implements it.
type Compiler interface {
	Compile(ctx context.Context, d *config.Description) (*plan.Plan, error)
}

// Classify maps an evaluation error to the kind and node the editor shows.
func Classify(err error) *ErrorInfo {
	info := &ErrorInfo{Kind: KindInvalidRequest, Message: err.Error()}

	var (
		structural *graph.StructuralError
		cyclic     *dag.CyclicGraphError
		unbound    *plan.UnboundInputError
		missing    *plan.MissingExternalInputError
		failed     *plan.NodeExecutionError
	)
	switch {
	case errors.As(err, &structural):
		info.Kind, info.NodeID = KindStructural, structural.NodeID
	case errors.Is(err, config.ErrInvalidDescription):
		info.Kind = KindStructural
	case errors.As(err, &cyclic):
		info.Kind, info.NodeID = KindCyclic, cyclic.NodeID
	case errors.As(err, &unbound):
		info.Kind, info.NodeID = KindUnboundInput, unbound.NodeID
	case errors.As(err, &missing):
		info.Kind, info.NodeID = KindMissingInput, missing.NodeID
	case errors.As(err, &failed):
		info.Kind, info.NodeID = KindNodeExecution, failed.NodeID
	}
	return info
}

// Handler evaluates requests.
type Handler struct {
	compiler Compiler
}

// NewHandler creates a Handler compiling through c.
func NewHandler(c Compiler) *Handler {
	return &Handler{compiler: c}
}

// DecodeRequest accepts an event argument as delivered by the socket: a
// JSON string, raw bytes or an already decoded object.
func DecodeRequest(payload any) (*Request, error) {
	var data []byte
	switch p := payload.(type) {
	case string:
		data = []byte(p)
	case []byte:
		data = p
	case map[string]any:
		var err error
		if data, err = sonic.Marshal(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported payload type %T", payload)
	}

	var req Request
	if err := sonic.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if req.Graph == nil {
		return nil, errors.New("request has no graph")
	}
	return &req, nil
}

// Handle evaluates one request. progress, when not nil, is called before
// every step. Handle never fails: errors are reported in the Response.
func (h *Handler) Handle(ctx context.Context, payload any, progress func(Progress)) Response {
	logger := ctxlog.FromContext(ctx)

	req, err := DecodeRequest(payload)
	if err != nil {
		logger.Warn("Rejecting evaluate request.", "error", err)
		resp := Response{Error: &ErrorInfo{Kind: KindInvalidRequest, Message: err.Error()}}
		if m, ok := payload.(map[string]any); ok {
			resp.ID, _ = m["id"].(string)
		}
		return resp
	}
	logger = logger.With("requestID", req.ID)
	ctx = ctxlog.WithLogger(ctx, logger)

	p, err := h.compiler.Compile(ctx, req.Graph)
	if err != nil {
		logger.Info("Graph failed to compile.", "error", err)
		return Response{ID: req.ID, Error: Classify(err)}
	}

	if progress != nil {
		p = p.With(plan.WithProgress(func(done float64, nodeID string) {
			progress(Progress{ID: req.ID, Done: done, NodeID: nodeID})
		}))
	}

	outputs, err := p.Execute(ctx, req.Inputs)
	if err != nil {
		logger.Info("Graph failed to execute.", "error", err)
		return Response{ID: req.ID, Error: Classify(err)}
	}
	logger.Debug("Request evaluated.", "outputs", len(outputs))
	return Response{ID: req.ID, Outputs: outputs}
}
