package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_ongkir/internal/app"
	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/service"
)

var (
	estProvince string
	estCity     string
	estDistrict string
	estWard     string
	estDetail   string
	estServices []string
	estAt       string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Quote a single address and print the estimate as JSON",
	Long: `Runs the same resolution, routing and tariff steps as
POST /v1/shipping/estimate for one address.

Examples:
  ongkirctl estimate --ward 3174021001
  ongkirctl estimate --district 317402 --services instant --at 2026-03-07T08:00:00+07:00`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVar(&estProvince, "province", "", "province code")
	estimateCmd.Flags().StringVar(&estCity, "city", "", "city full code")
	estimateCmd.Flags().StringVar(&estDistrict, "district", "", "district full code")
	estimateCmd.Flags().StringVar(&estWard, "ward", "", "ward (kelurahan) full code")
	estimateCmd.Flags().StringVar(&estDetail, "detail", "", "street address")
	estimateCmd.Flags().StringSliceVarP(&estServices, "services", "s", nil, "services to quote (default all)")
	estimateCmd.Flags().StringVar(&estAt, "at", "", "quote as of this RFC3339 time instead of now")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	var at time.Time
	if estAt != "" {
		var err error
		if at, err = time.Parse(time.RFC3339, estAt); err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}

	ctx := cmd.Context()
	engine, _, err := loadEngine(ctx, app.Options{})
	if err != nil {
		return err
	}
	defer engine.Close()

	if !at.IsZero() {
		engine.Quotes.SetClock(func() time.Time { return at })
	}

	est, err := engine.Quotes.Estimate(ctx, service.EstimateRequest{
		Address: models.AdministrativeAddress{
			ProvinceID:   estProvince,
			CityID:       estCity,
			DistrictID:   estDistrict,
			WardID:       estWard,
			DetailedText: estDetail,
		},
		Services: estServices,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(est)
}
