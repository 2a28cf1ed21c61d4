package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// colorsProperty is the optional palette argument shared by the palette tools.
var colorsProperty = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "string"},
	"description": "Palette as hex codes (e.g. [\"#2E3440\", \"88C0D0\"]). At least 4 colors that do not lie on one plane. Defaults to the Nord palette.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, pixel count and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_hull",
			Description: "Build the convex region spanned by a palette in RGB space and describe its corners, face count and volume. Fails if the palette is degenerate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"colors": colorsProperty,
				},
			},
		},
		{
			Name:        "palette_map_color",
			Description: "Map one color to the nearest color inside the palette's convex region. Colors already inside are returned unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color to map, e.g. \"#FFFF00\"",
					},
					"colors": colorsProperty,
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "palette_transfer",
			Description: "Remap every pixel of an image onto a palette and write the result. The output format follows the output extension, then the input format, then JPEG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path for the result. Defaults to out.<ext> next to the source image",
					},
					"colors": colorsProperty,
					"top_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Number of most frequent output colors to report. Default 5",
						"default":     5,
					},
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
