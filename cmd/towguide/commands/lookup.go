package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/resolve"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <vin-or-stock>",
	Short: "Resolve towing capacity for one inventory vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	profile, err := guide.ProfileForYear(cfg.Guide.Year)
	if err != nil {
		return err
	}

	doc, err := guide.Load(cfg.Guide.DocumentPath)
	if err != nil {
		return fmt.Errorf("load guide document: %w", err)
	}

	db, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	key := args[0]
	repo := storage.NewVehicleRepository(db)
	vehicle, err := repo.GetByVINOrStock(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			color.Red("✗ no vehicle matches %q", key)
			return err
		}
		return fmt.Errorf("fetch vehicle: %w", err)
	}

	resolver := resolve.NewResolver(doc, profile, logger.WithVehicle(vehicle.Key()))
	result := resolver.Resolve(vehicle)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
