package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fjacquet/pcrecon/cmd/bsr"
	"fjacquet/pcrecon/cmd/convert"
	"fjacquet/pcrecon/cmd/prices"
	"fjacquet/pcrecon/cmd/root"
)

func init() {
	// Load environment variables silently first, then set the global log
	// level before any logger is created.
	loadEnvSilently()
	logrus.SetLevel(logLevelFromEnv())

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(bsr.Cmd)
	root.Cmd.AddCommand(prices.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try the parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// logLevelFromEnv parses LOG_LEVEL, defaulting to info.
func logLevelFromEnv() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
