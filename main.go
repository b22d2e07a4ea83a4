// main is the entry point of the tomato CLI.
package main

import (
	"os"

	"github.com/huangsam/tomato/cmd"
	"github.com/huangsam/tomato/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		os.Exit(1)
	}
}
