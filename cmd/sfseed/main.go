// ABOUTME: Entry point for sfseed, the Salesforce test data seeder.
// ABOUTME: Wires config, logging, the generation driver, and the mock CRM into CLI commands.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sfseed",
		Short: "Seed a Salesforce org with linked, realistic test data",
		Long: `sfseed fills a Salesforce org (or its local mock) with test records:
accounts with contacts, logged calls, tasks and opportunities, plus
standalone leads. Owners rotate across TEST_USER_IDS.

Quick Start:
  sfseed generate                 # Seed the org configured in .env
  sfseed generate --preset basic  # Five-stage pipeline, no leads or tasks
  sfseed mock serve               # Local mock CRM on port 9100

Configuration is read from .env (working directory, parents, $HOME) and
the environment. See 'sfseed generate --help' for the variables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newGenerateCmd(), newMockCmd())
	return rootCmd
}
