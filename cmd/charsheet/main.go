// Package main is the command line entry point for the character engine
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "charsheet",
	Short: "D&D 5e character rules engine",
	Long:  `charsheet computes derived character sheets, resolves proficiencies, and walks level-ups for D&D 5e characters stored in Redis.`,
}

func main() {
	// a local .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(slotsCmd)
}
