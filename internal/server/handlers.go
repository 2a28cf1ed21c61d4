package server

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/palette-transfer/internal/imaging"
	"github.com/ironsheep/palette-transfer/internal/palette"
	"github.com/ironsheep/palette-transfer/internal/transfer"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "palette_transfer").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "palette_hull":
		return s.handlePaletteHull(args)
	case "palette_map_color":
		return s.handlePaletteMapColor(args)
	case "palette_transfer":
		return s.handlePaletteTransfer(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// mapperFor returns the shared Mapper for a palette, building its space on
// first use. An empty palette selects Nord.
func (s *Server) mapperFor(codes []string) (*transfer.Mapper, error) {
	if len(codes) == 0 {
		codes = palette.Nord
	}
	colors, err := palette.ParseColors(codes)
	if err != nil {
		return nil, err
	}

	hexes := make([]string, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex()
	}
	key := strings.Join(hexes, ",")

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mappers[key]; ok {
		return m, nil
	}

	space, err := palette.NewSpace(colors)
	if err != nil {
		return nil, err
	}
	m := transfer.NewMapper(space)
	s.mappers[key] = m
	return m, nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Palette Handlers ===

type paletteArgs struct {
	Colors []string `json:"colors"`
}

// HullResult describes the convex region spanned by a palette.
type HullResult struct {
	Colors  int                   `json:"colors"`
	Corners []imaging.ColorResult `json:"corners"`
	Faces   int                   `json:"faces"`
	Volume  float64               `json:"volume"`
}

func (s *Server) handlePaletteHull(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	m, err := s.mapperFor(a.Colors)
	if err != nil {
		return nil, err
	}

	space := m.Space()
	corners := space.Corners()
	result := &HullResult{
		Colors:  len(space.Palette()),
		Corners: make([]imaging.ColorResult, len(corners)),
		Faces:   len(space.Hull().Faces()),
		Volume:  space.Hull().Volume(),
	}
	for i, c := range corners {
		result.Corners[i] = imaging.DescribeColor(c)
	}
	return result, nil
}

type paletteMapColorArgs struct {
	Color  string   `json:"color"`
	Colors []string `json:"colors"`
}

// MapColorResult reports how one color was projected onto a palette.
type MapColorResult struct {
	Input    imaging.ColorResult `json:"input"`
	Output   imaging.ColorResult `json:"output"`
	Contact  string              `json:"contact"`
	Distance float64             `json:"distance"`
}

func (s *Server) handlePaletteMapColor(args json.RawMessage) (interface{}, error) {
	var a paletteMapColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	in, err := palette.ParseHex(a.Color)
	if err != nil {
		return nil, err
	}
	m, err := s.mapperFor(a.Colors)
	if err != nil {
		return nil, err
	}

	contact, err := m.Space().Query(in)
	if err != nil {
		return nil, err
	}
	out, err := m.MapColor(in)
	if err != nil {
		return nil, err
	}

	return &MapColorResult{
		Input:    imaging.DescribeColor(in),
		Output:   imaging.DescribeColor(out),
		Contact:  contact.Kind.String(),
		Distance: contact.Distance,
	}, nil
}

type paletteTransferArgs struct {
	Path      string   `json:"path"`
	Output    string   `json:"output"`
	Colors    []string `json:"colors"`
	TopColors int      `json:"top_colors"`
}

// TransferResult summarizes a completed image transfer.
type TransferResult struct {
	Output         string                   `json:"output"`
	Format         string                   `json:"format"`
	Width          int                      `json:"width"`
	Height         int                      `json:"height"`
	Pixels         int                      `json:"pixels"`
	DistinctColors int                      `json:"distinct_colors"`
	CacheEntries   int                      `json:"cache_entries"`
	ElapsedMS      int64                    `json:"elapsed_ms"`
	TopColors      []imaging.ColorFrequency `json:"top_colors"`
}

func (s *Server) handlePaletteTransfer(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteTransferArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TopColors == 0 {
		a.TopColors = 5
	}

	// Validate the palette before touching the image.
	m, err := s.mapperFor(a.Colors)
	if err != nil {
		return nil, err
	}

	img, inputFormat, err := s.cache.LoadWithFormat(a.Path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := m.MapImage(ctx, img)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	format := imaging.FormatFor(a.Output, inputFormat)
	output := a.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(a.Path), imaging.OutputPath("", format))
	}
	if err := imaging.Save(out, output, format); err != nil {
		return nil, err
	}

	pixels := transfer.Pixels(out)
	all := imaging.DominantColors(pixels, -1)
	top := all
	if len(top) > a.TopColors {
		top = top[:a.TopColors]
	}

	bounds := out.Bounds()
	return &TransferResult{
		Output:         output,
		Format:         format.String(),
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		Pixels:         len(pixels),
		DistinctColors: len(all),
		CacheEntries:   m.Cache().Len(),
		ElapsedMS:      elapsed.Milliseconds(),
		TopColors:      top,
	}, nil
}
