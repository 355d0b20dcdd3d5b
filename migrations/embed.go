package migrations

import "embed"

// FS contains the item schema migrations, one directory per database driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
