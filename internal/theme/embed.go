// Package theme provides the embedded colour themes for the terminal viewer.
package theme

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
