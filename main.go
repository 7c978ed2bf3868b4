// Package main measures the impact of classical database optimization techniques
// on a synthetic employees table stored in SQLite.
package main

import (
	// List of database drivers
	_ "github.com/acronis/perfkit/dbopt-bench/db/sql" // sql drivers

	// Engine
	"github.com/acronis/perfkit/dbopt-bench/engine"
)

func main() {
	engine.Main()
}
