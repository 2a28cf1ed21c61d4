// Package main is the palette-mcp server: palette transfer exposed as MCP
// tools over stdin/stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/palette-transfer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `palette-mcp - MCP server for palette transfer

Usage: palette-mcp [options]

Options:
  --version, -v    Print version information
  --help, -h       Print this help message

Tools:
  image_load          path                       Image dimensions, format and alpha
  palette_hull        [colors]                   Hull corners, face count and volume
  palette_map_color   color, [colors]            Map one hex color; reports contact and distance
  palette_transfer    path, [output], [colors],  Map an image file and write the result
                      [top_colors]

  colors is a list of hex codes such as ["#2E3440", "#88C0D0", ...] with at
  least 4 colors not on one plane. Without it the Nord palette is used.
  output defaults to out.<ext> next to the input image.

Environment variables:
  PALETTE_MCP_LOG_LEVEL=debug    Enable debug logging

The server speaks MCP over stdin/stdout; register it with your MCP client.
`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("palette-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n\n%s", os.Args[1], usage)
			os.Exit(2)
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("PALETTE_MCP_LOG_LEVEL") == "debug" {
		log.Printf("Palette MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	// A signal cancels any transfer in flight and stops the server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New()
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server error: %v", err)
		stop()
		os.Exit(1)
	}
}
