// Command codegraph is the CLI surface for the code dependency analyzer:
// build runs a full pipeline pass into the store, watch keeps it live, and
// query answers reverse-reachability questions over the stored graph. It is
// a thin adapter over packages pipeline, watch, and query — no analysis
// logic lives here.
package main

import (
	"fmt"
	"os"

	"github.com/codegraph-dev/codegraph/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}
