package server

import (
	"encoding/json"
	"errors"
	"fmt"

	preview "github.com/ironsheep/image-preview"
	"github.com/ironsheep/image-preview/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "preview_create").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "preview_create":
		return s.handlePreviewCreate(args)
	case "preview_fingerprint":
		return s.handlePreviewFingerprint(args)
	case "preview_info":
		return s.handlePreviewInfo(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type previewArgs struct {
	Path       string              `json:"path"`
	Operations []preview.Operation `json:"operations"`
}

func parsePreviewArgs(args json.RawMessage) (previewArgs, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, errors.New("path is required")
	}
	return a, nil
}

// CreateResult describes a cached preview.
type CreateResult struct {
	Path        string   `json:"path"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Fingerprint string   `json:"fingerprint"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Orientation string   `json:"orientation"`
	Substituted bool     `json:"substituted"`
	Operations  []string `json:"operations"`
}

func (s *Server) handlePreviewCreate(args json.RawMessage) (interface{}, error) {
	a, err := parsePreviewArgs(args)
	if err != nil {
		return nil, err
	}

	img, err := s.previews.Create(a.Path)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Operations {
		img.Apply(op)
	}

	path, err := img.Cache()
	if err != nil {
		return nil, err
	}

	return &CreateResult{
		Path:        path,
		URL:         img.URL(),
		Name:        img.Name(),
		Fingerprint: img.Fingerprint().String(),
		Width:       img.Width(),
		Height:      img.Height(),
		Orientation: string(img.Orientation()),
		Substituted: img.Substituted(),
		Operations:  operationStrings(img.Operations()),
	}, nil
}

// FingerprintResult is the cache key predicted for a request. Name uses the
// requested path's extension, which matches the cached file only when the
// source itself is decoded rather than the default preview.
type FingerprintResult struct {
	Fingerprint string   `json:"fingerprint"`
	Name        string   `json:"name"`
	Operations  []string `json:"operations"`
}

func (s *Server) handlePreviewFingerprint(args json.RawMessage) (interface{}, error) {
	a, err := parsePreviewArgs(args)
	if err != nil {
		return nil, err
	}

	var log preview.TransformLog
	for _, op := range a.Operations {
		full, err := op.Normalize()
		if err != nil {
			return nil, err
		}
		log.Append(full)
	}

	fp := preview.Digest(a.Path, &log)
	return &FingerprintResult{
		Fingerprint: fp.String(),
		Name:        fp.Name(imaging.Extension(a.Path)),
		Operations:  operationStrings(log.Operations()),
	}, nil
}

func (s *Server) handlePreviewInfo(args json.RawMessage) (interface{}, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	path, err := s.previews.Resolve(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(path)
}

func operationStrings(ops []preview.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}
