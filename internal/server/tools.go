package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty describes the source image argument shared by every tool.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Path of the source image. May start with a configured alias such as @webroot.",
}

// operationsProperty describes an ordered list of transformations.
var operationsProperty = map[string]interface{}{
	"type":        "array",
	"description": "Transformations applied in order. resize args: maxWidth, maxHeight[, keepAspectRatio=1[, allowUpscaling=0]]. crop args: width, height[, x=0[, y=0]]. A bound of 0 leaves that axis free.",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"method": map[string]interface{}{
				"type": "string",
				"enum": []string{"resize", "crop"},
			},
			"args": map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "integer"},
				"minItems": 2,
				"maxItems": 4,
			},
		},
		"required": []string{"method", "args"},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "preview_create",
			Description: "Open an image, apply the transformations and make sure the preview is in the cache. Returns the cache path, public URL and resulting size. The preview is encoded only on the first request for the same image and transformations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"operations": operationsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "preview_fingerprint",
			Description: "Compute the cache key and file name for an image and transformations without decoding or writing anything. The extension comes from the requested path; if the source is unreadable and the default preview stands in, preview_create writes the same fingerprint with the default preview's extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"operations": operationsProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "preview_info",
			Description: "Get the width, height, format and file size of an image without decoding its pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
