// Package embed carries the built frontend assets for the serve command.
package embed

import "embed"

// DistFS holds the dashboard frontend. The checked-in dist is a
// self-contained page; a richer build can replace it without code changes.
//
//go:embed all:dist
var DistFS embed.FS
