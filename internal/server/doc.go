// Package server exposes the preview cache as MCP (Model Context Protocol)
// tools over a JSON-RPC 2.0 stdio connection.
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
//   - preview_create: Open an image, apply resize and crop operations in
//     order and make sure the result is cached. Returns the cache path, URL,
//     fingerprint and final size.
//   - preview_fingerprint: Compute the cache key for an image and a list of
//     operations without touching the cache. The name carries the requested
//     path's extension, which differs from preview_create's when the default
//     preview stands in for an unreadable source.
//   - preview_info: Read width, height and format from an image header.
//
// Operations are objects of the form {"method": "resize", "args": [w, h]}.
// Omitted trailing arguments take the same defaults as the library calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(previews, logger, version)
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
