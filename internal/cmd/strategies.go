package cmd

import (
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huslpix/internal/husl"
	"github.com/MeKo-Tech/huslpix/internal/pipeline"
)

// converterOptions assembles pipeline options from the persistent strategy
// and worker flags.
func converterOptions() (pipeline.Options, error) {
	light, err := husl.ParseLightStrategy(viper.GetString("light"))
	if err != nil {
		return pipeline.Options{}, err
	}
	chroma, err := husl.ParseChromaStrategy(viper.GetString("chroma"))
	if err != nil {
		return pipeline.Options{}, err
	}
	hue, err := husl.ParseHueStrategy(viper.GetString("hue"))
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Workers: viper.GetInt("workers"),
		Strategies: husl.Options{
			Light:  light,
			Chroma: chroma,
			Hue:    hue,
		},
	}, nil
}
