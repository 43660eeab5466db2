// main is the entry point for the epdload CLI.
package main

import (
	"github.com/solartools/epdload/cmd"
	"github.com/solartools/epdload/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("command failed", err)
	}
}
