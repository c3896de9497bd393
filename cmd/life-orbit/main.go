package main

import (
	"os"

	"github.com/CyberDoctor2023/Life-Orbit/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
