// awardsctl runs the batch side of the system: bulk award ingestion and the
// derivation pass. The API server never writes; this CLI is the single
// writer.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"awardsreport/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:   "awardsctl",
	Short: "Batch ingestion and derivation for the awardsreport database",
}

func init() {
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(deriveCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.New().Error("command failed", "error", err)
		os.Exit(1)
	}
}
