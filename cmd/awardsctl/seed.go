package main

import (
	"time"

	"github.com/spf13/cobra"

	"awardsreport/internal/ingest"
	"awardsreport/internal/platform/config"
	kafkaproducer "awardsreport/internal/platform/kafka/producer"
	"awardsreport/internal/platform/logger"
	"awardsreport/internal/platform/postgres"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Download award transactions from USAspending and load them",
		Long: `Requests bulk award downloads covering the given window, waits for the
extracts to be generated, and COPYs the CSV contents into the assistance and
procurement transaction tables. Run 'awardsctl derive' afterwards to refresh
the derived columns and the unified transactions table.`,
		RunE: runSeed,
	}

	now := time.Now()
	cmd.Flags().Int("year", now.Year(), "last year of the load window")
	cmd.Flags().Int("month", int(now.Month())-1, "last month of the load window")
	cmd.Flags().Int("months", 13, "number of months to load, counting back from year/month")
	cmd.Flags().Int("period-months", 12, "maximum months per download request (upstream caps at 12)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	months, _ := cmd.Flags().GetInt("months")
	periodMonths, _ := cmd.Flags().GetInt("period-months")

	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		return err
	}
	defer db.Close()

	var events ingest.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkaproducer.New(cfg.KafkaBrokers, cfg.IngestTopic)
		if err != nil {
			return err
		}
		defer producer.Close()
		events = ingest.NewKafkaPublisher(producer)
	}

	loader, err := ingest.NewLoader(db, cfg.AwardsAPIURL, log, events)
	if err != nil {
		return err
	}
	return loader.Run(cmd.Context(), year, month, months, periodMonths)
}
