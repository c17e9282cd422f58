package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huslpix/internal/husl"
	"github.com/MeKo-Tech/huslpix/internal/imgio"
	"github.com/MeKo-Tech/huslpix/internal/pipeline"
	"github.com/MeKo-Tech/huslpix/internal/worker"
)

var convertCmd = &cobra.Command{
	Use:   "convert [images...]",
	Short: "Extract HUSL channels from images",
	Long: `Convert images to HUSL and write the selected channels as grayscale
PNGs next to the output directory. Hue is scaled from [0,360) and saturation
and lightness from [0,100] onto the 8-bit gray range.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("output-dir", ".", "Output directory for channel images")
	convertCmd.Flags().String("channels", "hsl", "Channels to extract (any of h, s, l)")
	convertCmd.Flags().Int("jobs", 2, "Images processed concurrently")
	convertCmd.Flags().Bool("progress", true, "Show progress bar")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"convert.output_dir", "output-dir"},
		{"convert.channels", "channels"},
		{"convert.jobs", "jobs"},
		{"convert.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, convertCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// channelProcessor converts one image file and writes its channel PNGs.
type channelProcessor struct {
	conv      *pipeline.Converter
	outputDir string
	channels  string
}

func (p *channelProcessor) Process(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rgb, width, height, err := imgio.Load(path)
	if err != nil {
		return "", err
	}

	hsl, err := p.conv.ToHUSL(rgb)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var lastOut string
	for _, spec := range []struct {
		key    byte
		suffix string
		offset int
		max    float64
	}{
		{'h', "hue", 0, 360.0},
		{'s', "saturation", 1, 100.0},
		{'l', "lightness", 2, 100.0},
	} {
		if !strings.ContainsRune(p.channels, rune(spec.key)) {
			continue
		}
		channel := make([]float64, width*height)
		for i := range channel {
			channel[i] = hsl[3*i+spec.offset]
		}
		gray, err := imgio.ChannelToGray(channel, width, height, spec.max)
		if err != nil {
			return "", err
		}
		lastOut = filepath.Join(p.outputDir, fmt.Sprintf("%s_%s.png", base, spec.suffix))
		if err := imgio.SavePNG(lastOut, gray); err != nil {
			return "", err
		}
	}
	return lastOut, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	outputDir := viper.GetString("convert.output_dir")
	channels := strings.ToLower(viper.GetString("convert.channels"))
	jobs := viper.GetInt("convert.jobs")
	showProgress := viper.GetBool("convert.progress")

	if channels == "" || strings.Trim(channels, "hsl") != "" {
		return fmt.Errorf("invalid channels %q: must be a combination of h, s, l", channels)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	opts, err := converterOptions()
	if err != nil {
		return err
	}

	logger.Info("Converting images",
		"count", len(args),
		"channels", channels,
		"light", opts.Strategies.Light.String(),
		"chroma", opts.Strategies.Chroma.String(),
		"hue", opts.Strategies.Hue.String(),
	)

	proc := &channelProcessor{
		conv:      pipeline.New(husl.Default(), opts, logger),
		outputDir: outputDir,
		channels:  channels,
	}

	tasks := make([]worker.Task, len(args))
	for i, path := range args {
		tasks[i] = worker.Task{Path: path}
	}

	progress := worker.NewProgress(len(tasks), showProgress)
	pool := worker.New(worker.Config{
		Workers:    jobs,
		Processor:  proc,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(context.Background(), tasks)
	progress.Done()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Conversion failed", "path", r.Task.Path, "error", r.Err)
		}
	}
	logger.Info(progress.Summary())

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(tasks))
	}
	return nil
}
