// Package main is the entry point for the peloton CLI.
package main

import (
	"github.com/huangsam/peloton/cmd"
	"github.com/huangsam/peloton/internal/archive"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/joho/godotenv"
)

func main() {
	// Connection strings usually live in a local .env file
	_ = godotenv.Load()

	defer archive.CloseArchive()
	if err := cmd.Execute(); err != nil {
		archive.CloseArchive()
		contract.LogFatal("Cannot run peloton", err)
	}
}
