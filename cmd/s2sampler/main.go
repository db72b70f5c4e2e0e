package main

import (
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/terralab/sentinel-sampler/internal/dataset"
	"github.com/terralab/sentinel-sampler/internal/geodata"
	"github.com/terralab/sentinel-sampler/internal/logger"
	"github.com/terralab/sentinel-sampler/internal/notification"
	"github.com/terralab/sentinel-sampler/internal/properties"
	"github.com/terralab/sentinel-sampler/internal/sentinel"
	"github.com/terralab/sentinel-sampler/output"
)

const dateLayout = "2006-01-02"

// runFlags holds one subcommand's flag values. Each command binds its own
// copy so per-command defaults (notably --output) stay independent.
type runFlags struct {
	input       string
	start       string
	end         string
	cloud       float64
	labelColumn string
	output      string
	plot        string
}

var (
	monthlyFlags runFlags
	pointsFlags  runFlags
)

func printBanner() {
	banner := figure.NewFigure("s2sampler", "isometric1", true)
	bannercolor.Cyan(banner.String())
	fmt.Println()
}

var rootCmd = &cobra.Command{
	Use:           "s2sampler",
	Short:         "Download Sentinel-2 reflectance samples for vector geometries",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Sample monthly median composites into one CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, &monthlyFlags, true)
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Sample a single composite at point records into a GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, &pointsFlags, false)
	},
}

func run(cmd *cobra.Command, flags *runFlags, monthly bool) error {
	cfg, err := properties.FromEnv()
	if err != nil {
		return err
	}
	log := logger.Build(logger.Config{Level: cfg.LogLevel, Console: true}, os.Stderr)

	start, err := time.Parse(dateLayout, flags.start)
	if err != nil {
		return fmt.Errorf("invalid --start date: %w", err)
	}
	end, err := time.Parse(dateLayout, flags.end)
	if err != nil {
		return fmt.Errorf("invalid --end date: %w", err)
	}

	records, err := geodata.Load(flags.input, flags.labelColumn, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to load input")
		return err
	}

	downloader := &dataset.Downloader{
		Catalog:  sentinel.NewClient(cmd.Context(), cfg, log),
		MaxCloud: flags.cloud,
		Tiling:   geodata.DefaultTileOptions,
		Log:      log,
	}

	var result dataset.Result
	if monthly {
		result = downloader.Monthly(cmd.Context(), records, start, end)
	} else {
		result = downloader.Snapshot(cmd.Context(), records, start, end)
	}

	// Rows gathered before a failure are still written out.
	var writeErr error
	if monthly {
		writeErr = dataset.WriteCSV(flags.output, result.Rows, log)
	} else {
		writeErr = dataset.WriteGeoJSON(flags.output, result.Rows, log)
	}
	if writeErr != nil {
		log.Error().Err(writeErr).Msg("failed to write output")
		return writeErr
	}

	if flags.plot != "" && len(result.Rows) > 0 {
		if err := output.CreateSampleMap(result.Rows, flags.plot); err != nil {
			log.Warn().Err(err).Msg("failed to render sample map")
		} else {
			log.Info().Str("path", flags.plot).Msg("sample map written")
		}
	}

	if result.Err != nil {
		log.Error().Err(result.Err).Int("rows", len(result.Rows)).Msg("download aborted, partial results kept")
		notify(log, notification.SendRunFailure(cfg.DiscordErrorWebhook, result.Err))
		return result.Err
	}

	notify(log, notification.SendRunSummary(cfg.DiscordSuccessWebhook, len(result.Rows), flags.output))
	return nil
}

func notify(log zerolog.Logger, err error) {
	if err != nil {
		log.Warn().Err(err).Msg("failed to send notification")
	}
}

func addRunFlags(cmd *cobra.Command, flags *runFlags, defaultOutput, outputHelp string) {
	cmd.Flags().StringVar(&flags.input, "input", "", "path to the input vector file (GeoJSON or any GDAL-readable format)")
	cmd.Flags().StringVar(&flags.start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.end, "end", "", "end date YYYY-MM-DD (exclusive)")
	cmd.Flags().Float64Var(&flags.cloud, "cloud", 30, "max cloud cover percentage")
	cmd.Flags().StringVar(&flags.labelColumn, "label-column", "landcover", "attribute column carrying the training label")
	cmd.Flags().StringVar(&flags.plot, "plot", "", "optional path for a PNG map of the sampled points")
	cmd.Flags().StringVar(&flags.output, "output", defaultOutput, outputHelp)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
}

func init() {
	addRunFlags(monthlyCmd, &monthlyFlags, "all_points_s2.csv", "output CSV file")
	addRunFlags(pointsCmd, &pointsFlags, "training_s2.geojson", "output GeoJSON file")

	rootCmd.AddCommand(monthlyCmd, pointsCmd)
}

func main() {
	godotenv.Load()
	printBanner()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
