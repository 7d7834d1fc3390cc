// Package app embeds the templates and static assets of the upload page.
package app

import "embed"

// FS holds layouts/, views/ and static/.
//
//go:embed layouts views static
var FS embed.FS
