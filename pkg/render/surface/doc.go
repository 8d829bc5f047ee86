// Package surface defines the 2D drawing contract used by scale renderers.
//
// A [Surface] is a small, canvas-like state machine: a current transform,
// stroke and fill colours, a line width, a font, and a path under
// construction. Save and Restore push and pop that state.
//
// Three implementations are provided:
//
//   - [SVG] collects vector elements and emits SVG markup
//   - [Raster] paints into an RGBA image using golang.org/x/image/vector
//   - [Recorder] logs every call in device space, for tests and inspection
//
// A [Factory] creates one surface per slide rule component. All surfaces share
// the same text metrics ([TextWidth]) so that label placement does not depend
// on the backend.
package surface
