package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when writing JPEG output.
const DefaultJPEGQuality = 95

// outputMode is the permission given to written images.
const outputMode os.FileMode = 0o644

// FormatFor chooses the encoding for a transfer result.
//
// The output file name wins when its extension is recognized. Otherwise the
// input's decoded format is reused when it can be encoded, and JPEG is the
// final fallback.
func FormatFor(output, inputFormat string) imaging.Format {
	if output != "" {
		if f, err := imaging.FormatFromFilename(output); err == nil {
			return f
		}
	}
	if f, err := imaging.FormatFromExtension(inputFormat); err == nil {
		return f
	}
	return imaging.JPEG
}

// Extension returns the file extension, without dot, conventionally used
// for f.
func Extension(f imaging.Format) string {
	switch f {
	case imaging.PNG:
		return "png"
	case imaging.GIF:
		return "gif"
	case imaging.TIFF:
		return "tiff"
	case imaging.BMP:
		return "bmp"
	default:
		return "jpg"
	}
}

// OutputPath returns output, or "out.<ext>" for f when output is empty.
func OutputPath(output string, f imaging.Format) string {
	if output != "" {
		return output
	}
	return "out." + Extension(f)
}

// Save encodes img as f and writes it to path.
//
// The image is encoded into a temporary file in the destination directory
// and renamed over path once complete.
func Save(img image.Image, path string, f imaging.Format) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, f, imaging.JPEGQuality(DefaultJPEGQuality)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s image: %w", f, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	// CreateTemp makes the file owner-only.
	if err := os.Chmod(tmp.Name(), outputMode); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
