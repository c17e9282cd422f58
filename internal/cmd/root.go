package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "huslpix",
	Short: "Bulk RGB to HUSL color conversion for images",
	Long: `huslpix converts images between sRGB and the HUSL color space, a
perceptually uniform hue/saturation/lightness encoding derived from CIE-LUV.

It extracts perceptually meaningful hue, saturation, and lightness channels,
builds hue-range masks, adjusts saturation and lightness in HUSL space, and
indexes image libraries by their HUSL statistics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker goroutines for pixel conversion (0 = all CPUs)")
	rootCmd.PersistentFlags().String("light", "exact", "Lightness strategy (exact, lut)")
	rootCmd.PersistentFlags().String("chroma", "exact", "Max-chroma strategy (exact, lut)")
	rootCmd.PersistentFlags().String("hue", "atan2", "Hue strategy (atan2, approx)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	for _, name := range []string{"workers", "light", "chroma", "hue", "verbose"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("HUSLPIX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
