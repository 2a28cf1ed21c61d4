package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/palette-transfer/internal/imaging"
	"github.com/ironsheep/palette-transfer/internal/palette"
)

func writePNG(t *testing.T, dir string, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-c", "000,fff,f00,0f0", "-o", "x.png", "-t", "-workers", "3", "in.jpg"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "in.jpg", opts.Input)
	assert.Equal(t, "x.png", opts.Output)
	assert.Equal(t, "000,fff,f00,0f0", opts.Colors)
	assert.Equal(t, 3, opts.Workers)
	assert.True(t, opts.Timing)

	_, err = parseFlags([]string{"-colors", "000", "-output", "y.png", "-timing", "in.jpg"}, &stderr)
	require.NoError(t, err)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"help", []string{"-h"}, flag.ErrHelp},
		{"version", []string{"-v"}, errVersion},
		{"long version", []string{"-version"}, errVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseFlags(tt.args, &stderr)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var stderr bytes.Buffer
	_, err := parseFlags(nil, &stderr)
	assert.ErrorContains(t, err, "exactly one input image")
	assert.Contains(t, stderr.String(), "Usage: palette-transfer")

	_, err = parseFlags([]string{"a.png", "b.png"}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-workers", "0", "a.png"}, &stderr)
	assert.ErrorContains(t, err, "workers")
}

func TestPaletteColors(t *testing.T) {
	t.Setenv("PALETTE_COLORS", "")
	colors, err := paletteColors("")
	require.NoError(t, err)
	assert.Equal(t, palette.NordColors(), colors)

	t.Setenv("PALETTE_COLORS", "000000,ffffff,ff0000,00ff00")
	colors, err = paletteColors("")
	require.NoError(t, err)
	assert.Len(t, colors, 4)

	colors, err = paletteColors("#000,#fff,#f00,#00f,#0f0")
	require.NoError(t, err)
	assert.Len(t, colors, 5)

	_, err = paletteColors("000,zzz")
	assert.Error(t, err)
}

func TestTransferImage(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, color.RGBA{255, 255, 0, 255})
	output := filepath.Join(dir, "out.png")

	var stdout bytes.Buffer
	opts := options{
		Input:   input,
		Output:  output,
		Colors:  "000,fff,f00,0f0",
		Workers: 2,
		Timing:  true,
	}
	require.NoError(t, transferImage(context.Background(), opts, nil, &stdout, nil))

	for _, line := range []string{"Read took", "Transfer took", "Write took", "Wrote " + output} {
		assert.Contains(t, stdout.String(), line)
	}

	img, format, err := imaging.Decode(output)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.NotEqual(t, [3]uint32{0xffff, 0xffff, 0}, [3]uint32{r, g, b}, "yellow is outside the palette hull")
}

func TestTransferImage_ProgressBar(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, color.RGBA{40, 40, 40, 255})

	var stdout, progress bytes.Buffer
	opts := options{Input: input, Output: filepath.Join(dir, "bar.png"), Workers: 1}
	require.NoError(t, transferImage(context.Background(), opts, nil, &stdout, &progress))

	assert.Contains(t, progress.String(), "100%")
	assert.NotContains(t, stdout.String(), "took")
}

func TestTransferImage_BadPaletteBeforeRead(t *testing.T) {
	var stdout bytes.Buffer
	opts := options{Input: "/nonexistent/in.png", Colors: "000,f00,0f0,ff0", Workers: 1}

	err := transferImage(context.Background(), opts, nil, &stdout, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, palette.ErrDegenerateHull))
}

func TestTransferImage_Cancelled(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, color.RGBA{1, 2, 3, 255})
	output := filepath.Join(dir, "never.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	err := transferImage(ctx, options{Input: input, Output: output, Workers: 1}, nil, &stdout, nil)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output is written for a cancelled transfer")
}

func TestDrawProgress(t *testing.T) {
	var buf bytes.Buffer
	drawProgress(&buf, 5, 10)
	assert.True(t, strings.HasPrefix(buf.String(), "\r["))
	assert.Contains(t, buf.String(), " 50%")
	assert.Equal(t, barWidth/2, strings.Count(buf.String(), "#"))

	buf.Reset()
	drawProgress(&buf, 0, 0)
	assert.Contains(t, buf.String(), "100%")
}
