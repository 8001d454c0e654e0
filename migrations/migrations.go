// Package migrations embeds the arena schema migrations so the migrate binary
// and the test helpers apply the same files.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate naming order.
//
//go:embed *.sql
var FS embed.FS
