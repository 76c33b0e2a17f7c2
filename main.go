package main

import (
	"os"

	"github.com/scan-io-git/flaw-importer/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
