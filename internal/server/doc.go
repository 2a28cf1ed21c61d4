// Package server implements an MCP (Model Context Protocol) server for palette transfers.
//
// This package provides a JSON-RPC 2.0 server that exposes palette mapping
// through the MCP protocol, so MCP-compatible clients can inspect palettes and
// recolor images without a shell.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - palette_hull: Describe the convex region spanned by a palette
//   - palette_map_color: Map a single color onto a palette
//   - palette_transfer: Map every pixel of an image and write the result
//
// Palette tools accept an optional "colors" list of hex codes and default to
// the Nord palette.
//
// # Caching
//
// Loaded images are cached by path. Each distinct palette gets one
// transfer.Mapper whose color cache is kept for the lifetime of the process,
// so repeated transfers with the same palette only resolve new colors.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A degenerate palette is reported this way before any image is read.
package server
