package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	preview "github.com/ironsheep/image-preview"
	"github.com/rs/zerolog"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unpacks the JSON text content of a successful tool call.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("decode tool result %q: %v", text, err)
	}
}

func TestHandleToolsCall_PreviewCreate(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 200, 100, color.RGBA{255, 0, 0, 255})

	args := map[string]interface{}{
		"path": src,
		"operations": []map[string]interface{}{
			{"method": "resize", "args": []int{100, 100}},
			{"method": "crop", "args": []int{40, 40, 10}},
		},
	}

	var first CreateResult
	decodeResult(t, callTool(t, s, "preview_create", args), &first)

	if first.Width != 40 || first.Height != 40 {
		t.Errorf("size: got %dx%d, want 40x40", first.Width, first.Height)
	}
	if first.Orientation != "square" {
		t.Errorf("orientation: got %s", first.Orientation)
	}
	if first.Substituted {
		t.Error("source exists, should not be substituted")
	}
	wantOps := []string{"resize(100,100,1,0);", "crop(40,40,10,0);"}
	if len(first.Operations) != 2 || first.Operations[0] != wantOps[0] || first.Operations[1] != wantOps[1] {
		t.Errorf("operations: got %v, want %v", first.Operations, wantOps)
	}
	if first.Name != first.Fingerprint+".png" {
		t.Errorf("name: got %s", first.Name)
	}
	if first.URL != "/cache/"+first.Name {
		t.Errorf("url: got %s", first.URL)
	}
	if _, err := os.Stat(first.Path); err != nil {
		t.Errorf("cached file missing: %v", err)
	}

	var second CreateResult
	decodeResult(t, callTool(t, s, "preview_create", args), &second)
	if second.Path != first.Path {
		t.Errorf("second call path: got %s, want %s", second.Path, first.Path)
	}
}

func TestHandleToolsCall_PreviewFingerprintMatchesCreate(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 64, 64, color.RGBA{0, 0, 255, 255})

	args := map[string]interface{}{
		"path": src,
		"operations": []map[string]interface{}{
			{"method": "resize", "args": []int{32, 0, 1}},
		},
	}

	var created CreateResult
	decodeResult(t, callTool(t, s, "preview_create", args), &created)

	var predicted FingerprintResult
	decodeResult(t, callTool(t, s, "preview_fingerprint", args), &predicted)

	if predicted.Fingerprint != created.Fingerprint {
		t.Errorf("fingerprint: got %s, want %s", predicted.Fingerprint, created.Fingerprint)
	}
	if predicted.Name != created.Name {
		t.Errorf("name: got %s, want %s", predicted.Name, created.Name)
	}
}

func TestHandleToolsCall_PreviewInfo(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 120, 90, color.RGBA{0, 255, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeResult(t, callTool(t, s, "preview_info", map[string]interface{}{"path": src}), &info)

	if info.Width != 120 || info.Height != 90 {
		t.Errorf("size: got %dx%d, want 120x90", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	src := createTestImageFile(t, 10, 10, color.White)

	tests := []struct {
		name string
		tool string
		args interface{}
	}{
		{"unknown tool", "image_ocr_full", map[string]interface{}{"path": src}},
		{"missing path", "preview_create", map[string]interface{}{}},
		{"missing source", "preview_create", map[string]interface{}{"path": filepath.Join(t.TempDir(), "gone.png")}},
		{"unknown method", "preview_create", map[string]interface{}{
			"path":       src,
			"operations": []map[string]interface{}{{"method": "rotate", "args": []int{90, 0}}},
		}},
		{"empty crop", "preview_create", map[string]interface{}{
			"path":       src,
			"operations": []map[string]interface{}{{"method": "crop", "args": []int{5, 5, 50, 50}}},
		}},
		{"bad fingerprint op", "preview_fingerprint", map[string]interface{}{
			"path":       src,
			"operations": []map[string]interface{}{{"method": "crop", "args": []int{5}}},
		}},
		{"info of unsupported file", "preview_info", map[string]interface{}{"path": "/tmp/file.bmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp == nil || resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_FingerprintExtensionWithDefaultPreview(t *testing.T) {
	cfg := preview.DefaultConfig()
	cfg.CacheDirectory = filepath.Join(t.TempDir(), "cache")
	cfg.CacheBaseURL = "/cache"
	cfg.Aliases = nil
	cfg.DefaultPreviewImage = createTestImageFile(t, 16, 16, color.Black)

	svc, err := preview.New(cfg)
	if err != nil {
		t.Fatalf("preview.New: %v", err)
	}
	s := New(svc, zerolog.Nop(), "test")

	args := map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.jpg")}

	var predicted FingerprintResult
	decodeResult(t, callTool(t, s, "preview_fingerprint", args), &predicted)

	var created CreateResult
	decodeResult(t, callTool(t, s, "preview_create", args), &created)

	if !created.Substituted {
		t.Fatal("default preview should stand in for the missing source")
	}
	if predicted.Fingerprint != created.Fingerprint {
		t.Errorf("fingerprint: got %s, want %s", predicted.Fingerprint, created.Fingerprint)
	}
	if predicted.Name != predicted.Fingerprint+".jpg" {
		t.Errorf("predicted name: got %s, want the requested extension", predicted.Name)
	}
	if created.Name != created.Fingerprint+".png" {
		t.Errorf("created name: got %s, want the default preview's extension", created.Name)
	}
}
