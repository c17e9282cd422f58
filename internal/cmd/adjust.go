package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huslpix/internal/enhance"
	"github.com/MeKo-Tech/huslpix/internal/husl"
	"github.com/MeKo-Tech/huslpix/internal/imgio"
	"github.com/MeKo-Tech/huslpix/internal/pipeline"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust [image]",
	Short: "Adjust saturation and lightness in HUSL space",
	Long: `Adjust converts an image to HUSL, scales its saturation and
lightness channels, and converts back to sRGB. Because HUSL saturation is
normalized to the gamut, boosted colors never clip to out-of-gamut values.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdjust,
}

func init() {
	rootCmd.AddCommand(adjustCmd)

	adjustCmd.Flags().Float64("saturation", 1.0, "Saturation multiplier")
	adjustCmd.Flags().Float64("lightness", 1.0, "Lightness multiplier")
	adjustCmd.Flags().StringP("output", "o", "adjusted.png", "Output PNG path")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"adjust.saturation", "saturation"},
		{"adjust.lightness", "lightness"},
		{"adjust.output", "output"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, adjustCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runAdjust(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	opts, err := converterOptions()
	if err != nil {
		return err
	}
	satFactor := viper.GetFloat64("adjust.saturation")
	lightFactor := viper.GetFloat64("adjust.lightness")
	output := viper.GetString("adjust.output")

	rgb, width, height, err := imgio.Load(args[0])
	if err != nil {
		return err
	}

	conv := pipeline.New(husl.Default(), opts, logger)
	hsl, err := conv.ToHUSL(rgb)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}

	if err := enhance.AdjustSaturation(hsl, satFactor); err != nil {
		return err
	}
	if err := enhance.AdjustLightness(hsl, lightFactor); err != nil {
		return err
	}

	adjusted, err := conv.ToRGB(hsl)
	if err != nil {
		return fmt.Errorf("failed to convert back to RGB: %w", err)
	}

	img, err := imgio.ToImage(adjusted, width, height)
	if err != nil {
		return err
	}
	if err := imgio.SavePNG(output, img); err != nil {
		return err
	}

	logger.Info("Adjusted image written",
		"path", output,
		"saturation", satFactor,
		"lightness", lightFactor,
	)
	return nil
}
