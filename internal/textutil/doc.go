// Package textutil provides text processing utilities for filename
// sanitization and display-title derivation.
//
// The primary use cases are:
//   - Sanitizing track titles for safe filesystem use during transcript export
//   - Deriving a fallback display title from a media page URL when the
//     resolver returns no title
package textutil
