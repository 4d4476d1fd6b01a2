package main

import (
	"os"

	"hack-or-snooze/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
