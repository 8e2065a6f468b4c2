// Package locales embeds the go-i18n message files.
package locales

import "embed"

//go:embed *.toml
var FS embed.FS
