// Package imaging loads, describes and writes the images a palette transfer
// works on.
//
// This package is the I/O side of a transfer: decoding source files, choosing
// an output encoding, and writing results. The palette geometry itself lives
// in the palette and transfer packages and never touches files.
//
// # Supported Formats
//
// Decoding: PNG, JPEG, GIF, BMP, TIFF and WebP.
// Encoding: PNG, JPEG, GIF, BMP and TIFF. The output format is taken from the
// output file name, then from the decoded input format, then falls back to
// JPEG.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - File I/O errors during image loading
//   - Unrecognized image data
//   - Encoding errors during image output
//
// Output is written to a temporary file next to the destination and renamed
// into place, so a failed write never leaves a truncated result behind.
package imaging
