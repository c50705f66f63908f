// main is the entry point for the glucodip CLI.
package main

import (
	"os"

	"github.com/mlevkov/glucodip/cmd"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/datastore"
)

func main() {
	// Wire the global store manager into the command layer; commands that
	// never touch persistence still get a valid (possibly disabled) manager.
	cmd.SetStoreManager(datastore.Manager)
	defer datastore.CloseStores()

	err := cmd.Execute()

	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("stopping profiler", profErr)
	}

	if err != nil {
		// The root command silences cobra's own error printing, so this is
		// the single place command failures surface.
		contract.LogWarn("command failed", err)
		os.Exit(1)
	}
}
