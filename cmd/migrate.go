package cmd

import (
	"github.com/kendall-kelly/tna-tracker-api/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := config.AutoMigrate(db); err != nil {
		return err
	}

	log.Info("Database migration completed successfully")
	return nil
}
