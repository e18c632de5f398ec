// Package main is the entrypoint for the storecheck CLI.
package main

import (
	"github.com/huangsam/storecheck/cmd"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("storecheck failed", err)
	}
}
