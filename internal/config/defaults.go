package config

const (
	defaultResourceDir     = "res"
	defaultManifest        = "resources.res"
	defaultImageWidth      = 64
	defaultImageHeight     = 64
	defaultTileSize        = 8
	defaultSampleRate      = 22050
	defaultAmplitude       = 16000
	defaultToneSeconds     = 0.25
	defaultMinFrequency    = 440
	defaultMaxFrequency    = 1320
	defaultGenerateWorkers = 4
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with the built-in defaults
func Default() Config {
	return Config{
		Paths: Paths{
			ResourceDir:     defaultResourceDir,
			DefaultManifest: defaultManifest,
		},
		Image: Image{
			DefaultWidth:  defaultImageWidth,
			DefaultHeight: defaultImageHeight,
			TileSize:      defaultTileSize,
		},
		Audio: Audio{
			SampleRate:   defaultSampleRate,
			Amplitude:    defaultAmplitude,
			ToneSeconds:  defaultToneSeconds,
			MinFrequency: defaultMinFrequency,
			MaxFrequency: defaultMaxFrequency,
		},
		Generate: Generate{
			Workers: defaultGenerateWorkers,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
