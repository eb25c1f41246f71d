// Command rentalledger runs the BookBnB rental ledger.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	loadDotEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rentalledger",
		Short:         "BookBnB rental ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		tokenCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadDotEnv reads an optional .env from the working directory. Variables already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}
