package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_ongkir/internal/app"
	"github.com/GTDGit/gtd_ongkir/internal/service"
)

var (
	geocodeOut      string
	geocodeCity     string
	geocodeUpload   bool
	geocodeInterval time.Duration
	geocodeWorkers  int
)

var buildGeocodeCmd = &cobra.Command{
	Use:   "build-geocode",
	Short: "Geocode every ward and write the coordinate table",
	Long: `Walks the territory tables, geocodes each ward as
"ward, district, city, province, Indonesia" and writes the nested
city -> district -> ward JSON table read by the API. Wards the geocoder
cannot place are written as null. Answers are kept in the geocode cache, so
a rerun only pays for new or failed wards.`,
	Args: cobra.NoArgs,
	RunE: runBuildGeocode,
}

func init() {
	buildGeocodeCmd.Flags().StringVarP(&geocodeOut, "out", "o", "data/ward_coordinates.json", "output file")
	buildGeocodeCmd.Flags().StringVar(&geocodeCity, "city", "", "only geocode wards of this city full code, e.g. 3174")
	buildGeocodeCmd.Flags().BoolVar(&geocodeUpload, "upload", false, "publish the table to the reference bucket")
	buildGeocodeCmd.Flags().DurationVar(&geocodeInterval, "interval", 100*time.Millisecond, "minimum spacing between geocoder calls")
	buildGeocodeCmd.Flags().IntVar(&geocodeWorkers, "workers", 4, "concurrent geocoder calls")
}

func runBuildGeocode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	engine, cfg, err := loadEngine(ctx, app.Options{SkipWardTable: true})
	if err != nil {
		return err
	}
	defer engine.Close()

	if engine.Geocoder == nil {
		return errors.New("GOOGLE_MAPS_API_KEY must be set to build the coordinate table")
	}

	batch := service.NewBatchGeocoder(engine.Index, engine.Geocoder, engine.GeocodeStore)
	table, report, err := batch.Build(ctx, service.BatchOptions{
		CityCode: geocodeCity,
		Interval: geocodeInterval,
		Workers:  geocodeWorkers,
		Timeout:  cfg.Routing.GeocodeTimeout,
	})
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(geocodeOut), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(geocodeOut, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", geocodeOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d wards, %d geocoded, %d from cache, %d failed\n",
		geocodeOut, report.Total, report.Geocoded, report.Stored, report.Failed)

	if geocodeUpload {
		if engine.S3 == nil {
			return errors.New("S3 is not configured")
		}
		if err := engine.S3.Upload(ctx, cfg.Reference.WardCoordinatesKey, raw, "application/json"); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to s3://%s/%s\n", cfg.S3.Bucket, cfg.Reference.WardCoordinatesKey)
	}
	return nil
}
