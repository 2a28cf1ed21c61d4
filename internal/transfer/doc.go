// Package transfer maps whole images onto a palette space.
//
// A Mapper combines a read-only palette.Space with a shared colorcache.Cache
// and fans the pixels of a buffer out to a bounded set of goroutines. Output
// order always matches input order; the order in which pixels are processed
// does not.
//
// # Cancellation
//
// The context passed to MapPixels and MapImage is checked before every chunk.
// A cancelled mapping returns the context error and no buffer, so callers
// never see a partially mapped image.
//
// # Progress
//
// A Progress counter, when attached, is advanced once per mapped pixel. It is
// only read for display, so Watch polls it on a ticker instead of receiving
// notifications.
package transfer
