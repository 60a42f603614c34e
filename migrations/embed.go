// Package migrations embeds the goose SQL migrations so the migrate command
// works from a single binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
