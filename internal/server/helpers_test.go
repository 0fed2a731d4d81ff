package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/frame-recognizer/internal/config"
)

var (
	neutralGray = color.RGBA{128, 128, 128, 255}
	oceanBlue   = color.RGBA{0, 0, 200, 255}
	brightRed   = color.RGBA{200, 30, 30, 255}
)

// createFrameFile writes img as a PNG into a temp dir and returns its path.
func createFrameFile(t *testing.T, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func solidFrame(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// bandedFrame is a 100x100 neutral frame with the first percent rows in c.
func bandedFrame(c color.Color, percent int) *image.RGBA {
	img := solidFrame(100, 100, neutralGray)
	for y := 0; y < percent; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func stripedFrame() *image.RGBA {
	img := solidFrame(100, 100, color.Black)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x%4 >= 2 {
				img.Set(x, y, color.RGBA{150, 150, 150, 255})
			}
		}
	}
	return img
}

func halvesFrame() *image.RGBA {
	img := solidFrame(100, 100, color.White)
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// testConfig crops 100x100 so the test frames are analysed unscaled.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Capture.CropSize = 100
	return cfg
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New(testConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func callTool(t *testing.T, handler mcpserver.ToolHandlerFunc, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "first content is not text")
	return text.Text
}

// decodeResult fails the test on an error result and decodes its JSON.
func decodeResult(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), v))
}
