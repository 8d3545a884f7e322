package main

import (
	"os"

	"symdex/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.NewLogger(logging.Config{
			Format: logging.HumanFormat,
			Level:  logging.ErrorLevel,
		})
		logger.Error("Command execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
