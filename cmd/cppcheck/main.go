package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(setupFailureCode)
	}
	os.Exit(exitCode)
}
