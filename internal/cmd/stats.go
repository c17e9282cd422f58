package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huslpix/internal/husl"
	"github.com/MeKo-Tech/huslpix/internal/imgio"
	"github.com/MeKo-Tech/huslpix/internal/pipeline"
	"github.com/MeKo-Tech/huslpix/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats [images...]",
	Short: "Index images by their HUSL statistics",
	Long: `Stats computes HUSL channel histograms for images and stores them
in a SQLite database, keyed by file name. Large images are downsampled before
conversion; histograms do not need full resolution.

With --query-hue the stored index is queried instead: images whose dominant
hue falls in the given min,max degree range are listed, ordered by hue.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("db", "huslpix.db", "SQLite database path")
	statsCmd.Flags().Int("sample-size", 512, "Max image edge before conversion (0 = full resolution)")
	statsCmd.Flags().String("query-hue", "", "Query stored images by dominant hue range: min,max degrees")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"stats.db", "db"},
		{"stats.sample_size", "sample-size"},
		{"stats.query_hue", "query-hue"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, statsCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := stats.Open(viper.GetString("stats.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if query := viper.GetString("stats.query_hue"); query != "" {
		return runStatsQuery(store, query)
	}
	if len(args) == 0 {
		return fmt.Errorf("no images given and no --query-hue")
	}

	opts, err := converterOptions()
	if err != nil {
		return err
	}
	sampleSize := viper.GetInt("stats.sample_size")
	conv := pipeline.New(husl.Default(), opts, logger)

	for _, path := range args {
		if err := indexImage(store, conv, path, sampleSize); err != nil {
			return err
		}
	}

	logger.Info("Indexed images", "count", len(args), "db", viper.GetString("stats.db"))
	return nil
}

func indexImage(store *stats.Store, conv *pipeline.Converter, path string, sampleSize int) error {
	rgb, width, height, err := imgio.Load(path)
	if err != nil {
		return err
	}

	sw, sh := width, height
	if sampleSize > 0 && (width > sampleSize || height > sampleSize) {
		img, err := imgio.ToImage(rgb, width, height)
		if err != nil {
			return err
		}
		rgb, sw, sh = imgio.Flatten(imgio.Downscale(img, sampleSize))
	}

	hsl, err := conv.ToHUSL(rgb)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", path, err)
	}

	hist, err := stats.Compute(hsl)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	if err := store.Save(name, width, height, hist); err != nil {
		return err
	}

	logger.Debug("Indexed image",
		"name", name,
		"sampled", fmt.Sprintf("%dx%d", sw, sh),
		"dominant_hue", hist.DominantHue(),
		"mean_saturation", hist.MeanSaturation(),
		"mean_lightness", hist.MeanLightness(),
	)
	return nil
}

func runStatsQuery(store *stats.Store, query string) error {
	var hueMin, hueMax float64
	if _, err := fmt.Sscanf(query, "%f,%f", &hueMin, &hueMax); err != nil {
		return fmt.Errorf("invalid --query-hue %q: expected min,max degrees", query)
	}

	records, err := store.ListByHue(hueMin, hueMax)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Printf("%s\t%dx%d\thue=%.1f\tsat=%.1f\tlight=%.1f\n",
			rec.Name, rec.Width, rec.Height,
			rec.DominantHue, rec.MeanSaturation, rec.MeanLightness)
	}
	logger.Info("Query complete", "matches", len(records))
	return nil
}
