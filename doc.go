// Package preview generates resized and cropped variants of source images and
// keeps them in a cache directory, named by a fingerprint of the source path
// and the transformations requested.
//
// # Usage
//
//	svc, err := preview.New(cfg, preview.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	img, err := svc.Create("@webroot/uploads/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	img.Resize(320, 240, true, false).Crop(200, 200, 0, 0)
//	path, err := img.Cache()
//	// path is <cacheDirectory>/<fingerprint>.jpg, img.URL() its public URL
//
// # Cache Keys
//
// Every Resize and Crop call is appended to the Image's TransformLog, even
// when it leaves the pixels unchanged. The fingerprint is the MD5 of
//
//	originalFilename + ";" + op1 + op2 + ...
//
// where each operation renders as method(arg,arg,...); with booleans as 0/1.
// The same filename and call sequence always map to the same cache file; any
// change in order, method or argument maps to a different one. Cache files
// are never invalidated: a changed source must be requested under a
// different filename or with different operations.
//
// # Caching Guarantee
//
// Image.Cache encodes at most once per fingerprint for the lifetime of the
// cache directory. Files are written to a temporary name and renamed into
// place, so concurrent callers, in this process or others, never observe a
// partial file. Within a process concurrent calls for the same fingerprint
// share a single encode.
//
// # Lifecycle Hooks
//
// Handlers registered on Service.Hooks run synchronously in registration
// order at four points:
//   - BeforeOpen: may rewrite Event.Filename before the source is opened
//   - AfterOpen: after decoding
//   - BeforeSave: before an encode (not on cache hits)
//   - AfterSave: after the file is published and its mode applied
//
// A handler error aborts the operation and is returned to the caller.
//
// # Default Preview
//
// When a source is missing or not a jpg, jpeg, png or gif file and
// Config.DefaultPreviewImage is set, the default image is decoded in its
// place. The fingerprint is still derived from the requested filename, so
// different missing sources with the same operations produce separate cache
// files with identical content.
//
// # Errors
//
// Failures are classified by the sentinels ErrOpen, ErrEncode, ErrConfig and
// ErrTransform; use errors.Is or the Is*Error helpers. A failure before the
// file is published leaves nothing under the final cache name. An AfterSave
// handler runs after publication: its error is returned, the file stays, and
// later Cache calls for the same preview are hits that fire no save hooks.
package preview
