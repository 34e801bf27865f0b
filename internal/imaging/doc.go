// Package imaging provides the pixel-level operations behind preview generation.
//
// This package wraps github.com/disintegration/imaging with the policies the
// preview cache needs: a fixed allow-list of raster formats, decoding that
// refuses anything outside that list, encoding by target format, and the
// resize/crop geometry rules. All operations work with standard Go image.Image
// types and use a coordinate system where (0,0) is at the top-left corner,
// X increases rightward, and Y increases downward.
//
// # Supported Formats
//
// Sources and cached previews are limited to:
//   - "jpg", "jpeg" -> JPEG
//   - "png" -> PNG
//   - "gif" -> GIF
//
// The format is determined by file extension, case-insensitively. A file with
// any other extension is rejected before it is opened.
//
// # Resize Policy
//
// Resize takes a bounding box (0 means unbounded on that axis) and two flags:
//   - keepAspectRatio: fit inside the box preserving the source ratio,
//     otherwise stretch to the box
//   - allowUpscaling: permit results larger than the source, otherwise a
//     source that already fits is returned unchanged
//
// # Thread Safety
//
// All functions are stateless and may be called concurrently. Returned images
// are always new buffers or the unmodified input; inputs are never written to.
package imaging
