package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngo-crm/feedback-crm/internal/infrastructure/seed"
	"github.com/ngo-crm/feedback-crm/internal/pkg/config"
	"github.com/ngo-crm/feedback-crm/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Validate the seed file and load it into the configured storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			cfg.SeedFile = path
		}
		logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "feedback-crm", Env: cfg.Env})

		data, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		fmt.Printf("seed ok: %d users, %d tasks\n", len(data.Users), len(data.Tasks))

		if cfg.Storage != config.StorageMongo {
			fmt.Println("storage is in-memory, nothing to persist")
			return nil
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		st, err := openStores(ctx, cfg, logger.For("seed"))
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		// Unlike serve, an explicit seed run restores every missing record.
		res, err := seed.Apply(ctx, st.users, st.tasks, data)
		if err != nil {
			return err
		}
		fmt.Printf("inserted %d users, %d tasks\n", res.Users, res.Tasks)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "", "Seed file to load instead of SEED_FILE or the embedded default")
	rootCmd.AddCommand(seedCmd)
}
