// Package migrations embeds the prediction history schema so the daemon and
// the integration tests migrate from the same files.
package migrations

import "embed"

// FS holds the golang-migrate up and down scripts.
//
//go:embed *.sql
var FS embed.FS
