package cmd

import (
	"fmt"

	"applianceassist/cmd/migration/initialize"
	"applianceassist/cmd/migration/seed"
	"applianceassist/internal/database"
	"applianceassist/internal/logger"

	"github.com/spf13/cobra"
)

var (
	rollbackSteps int
	seedReset     bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").File("migrate")

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if rollbackSteps > 0 {
			reverted, err := db.Rollback(rollbackSteps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", reverted)
			return err
		}

		applied, err := initialize.InitializeTables(db, log)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return err
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo service requests into a development database",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").File("seed")

		config, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.New(config)
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := initialize.InitializeTables(db, log); err != nil {
			return err
		}

		inserted, err := seed.Seed(cmd.Context(), db, config, seedReset, log)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d service request(s)\n", inserted)
		return err
	},
}

func init() {
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "Roll back this many migrations instead of applying")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete existing service requests before seeding")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func openDatabase() (database.DB, error) {
	config, err := loadConfig()
	if err != nil {
		return database.DB{}, err
	}
	return database.New(config)
}
