package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"awardsreport/internal/ingest"
	"awardsreport/internal/platform/config"
	kafkaproducer "awardsreport/internal/platform/kafka/producer"
	"awardsreport/internal/platform/logger"
	"awardsreport/internal/platform/postgres"
)

func deriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive",
		Short: "Recompute derived columns and rebuild the transactions table",
		Long: `Sets generated_pragmatic_obligations, the action date year/month columns,
and award_summary_unique_key on both source tables, then rebuilds the unified
transactions table the reporting API reads from. Runs in one transaction.`,
		RunE: runDerive,
	}
}

func runDerive(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		return err
	}
	defer db.Close()

	var events ingest.EventPublisher = ingest.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkaproducer.New(cfg.KafkaBrokers, cfg.IngestTopic)
		if err != nil {
			return err
		}
		defer producer.Close()
		events = ingest.NewKafkaPublisher(producer)
	}

	deriver, err := ingest.NewDeriver(db, log)
	if err != nil {
		return err
	}
	if err := deriver.Run(cmd.Context()); err != nil {
		return err
	}

	if err := events.Emit(cmd.Context(), ingest.Event{
		RunID:     uuid.NewString(),
		Action:    ingest.EventDerivePassed,
		Timestamp: time.Now(),
	}); err != nil {
		log.Warn("derive event publish failed", "error", err)
	}
	return nil
}
