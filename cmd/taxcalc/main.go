package main

import (
	"os"

	"github.com/yingxuan/tax-return-tool/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
