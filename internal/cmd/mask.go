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

var maskCmd = &cobra.Command{
	Use:   "mask [image]",
	Short: "Build a hue-range mask from an image",
	Long: `Mask selects the pixels whose HUSL hue falls within a given range,
optionally bounded by saturation and lightness, and writes the result as a
grayscale PNG. With --apply the mask is multiplied onto the source image
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runMask,
}

func init() {
	rootCmd.AddCommand(maskCmd)

	maskCmd.Flags().Float64("hue-min", 0, "Lower hue bound in degrees")
	maskCmd.Flags().Float64("hue-max", 360, "Upper hue bound in degrees (min > max wraps through 0)")
	maskCmd.Flags().Float64("min-saturation", 5, "Ignore pixels below this saturation")
	maskCmd.Flags().Float64("min-lightness", 0, "Ignore pixels below this lightness")
	maskCmd.Flags().Float64("max-lightness", 100, "Ignore pixels above this lightness")
	maskCmd.Flags().Float32("blur", 0, "Gaussian blur sigma for soft mask edges")
	maskCmd.Flags().Bool("apply", false, "Write the masked source image instead of the mask")
	maskCmd.Flags().StringP("output", "o", "mask.png", "Output PNG path")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"mask.hue_min", "hue-min"},
		{"mask.hue_max", "hue-max"},
		{"mask.min_saturation", "min-saturation"},
		{"mask.min_lightness", "min-lightness"},
		{"mask.max_lightness", "max-lightness"},
		{"mask.blur", "blur"},
		{"mask.apply", "apply"},
		{"mask.output", "output"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, maskCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runMask(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	opts, err := converterOptions()
	if err != nil {
		return err
	}

	rgb, width, height, err := imgio.Load(args[0])
	if err != nil {
		return err
	}

	conv := pipeline.New(husl.Default(), opts, logger)
	hsl, err := conv.ToHUSL(rgb)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}

	mask, err := enhance.HueMask(hsl, width, height, enhance.MaskOptions{
		HueMin:        viper.GetFloat64("mask.hue_min"),
		HueMax:        viper.GetFloat64("mask.hue_max"),
		MinSaturation: viper.GetFloat64("mask.min_saturation"),
		MinLightness:  viper.GetFloat64("mask.min_lightness"),
		MaxLightness:  viper.GetFloat64("mask.max_lightness"),
		BlurSigma:     float32(viper.GetFloat64("mask.blur")),
	})
	if err != nil {
		return err
	}

	output := viper.GetString("mask.output")

	if viper.GetBool("mask.apply") {
		masked, err := enhance.ApplyMask(rgb, mask)
		if err != nil {
			return err
		}
		img, err := imgio.ToImage(masked, width, height)
		if err != nil {
			return err
		}
		if err := imgio.SavePNG(output, img); err != nil {
			return err
		}
	} else if err := imgio.SavePNG(output, mask); err != nil {
		return err
	}

	logger.Info("Mask written", "path", output)
	return nil
}
