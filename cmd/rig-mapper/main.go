// Command rig-mapper transfers rig setup between node hierarchies.
package main

import (
	"os"

	"rig-mapper/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
