// Package docs embeds the jml language guide for use by the CLI.
package docs

import _ "embed"

// LangGuide is the markdown language guide printed by "jml doc --guide".
//
//go:embed lang.md
var LangGuide string
