package cmd

import (
	"github.com/kendall-kelly/tna-tracker-api/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "tna-tracker-api",
	Short: "Time-and-Action tracking API for apparel production",
	Long: `Tracks TNA records for apparel styles across merchandising, CAD,
fabric, sample and shipment workflows, and serves the summary views built on them.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := config.NewLogger(cfg)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithField("driver", cfg.DBDriver).Info("Database connection established")

	return cfg, log, db, nil
}
