package main

import (
	"os"

	appLog "holical/internal/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		appLog.Error("holical failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}
