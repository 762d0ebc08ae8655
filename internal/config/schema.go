package config

// Config is the root configuration structure.
type Config struct {
	Extract ExtractCfg `mapstructure:"extract" yaml:"extract"`
	OCR     OCRCfg     `mapstructure:"ocr" yaml:"ocr"`
	Server  ServerCfg  `mapstructure:"server" yaml:"server"`
	Log     LogCfg     `mapstructure:"log" yaml:"log"`
}

// ExtractCfg tunes corpus scanning and the extraction pipeline.
type ExtractCfg struct {
	Extension              string   `mapstructure:"extension" yaml:"extension"`                               // Target file suffix, matched case-insensitively
	Workers                int      `mapstructure:"workers" yaml:"workers"`                                   // Concurrent documents
	DPI                    int      `mapstructure:"dpi" yaml:"dpi"`                                           // Rasterization resolution for OCR
	MinConfidence          int      `mapstructure:"min_confidence" yaml:"min_confidence"`                     // OCR tokens at or below this are dropped
	Languages              []string `mapstructure:"languages" yaml:"languages"`                               // Tesseract language codes
	PollIntervalMS         int      `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`                 // Pause/cancel sampling interval
	DocumentTimeoutSeconds int      `mapstructure:"document_timeout_seconds" yaml:"document_timeout_seconds"` // 0 disables
}

// OCRCfg configures the Tesseract engine.
type OCRCfg struct {
	// TessdataPrefix points at trained data (supports ${ENV_VAR} syntax).
	TessdataPrefix string `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
}

// ServerCfg configures the HTTP control server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LogCfg configures the slog handler built by the CLI.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractCfg{
			Extension:      ".pdf",
			Workers:        4,
			DPI:            300,
			MinConfidence:  70,
			Languages:      []string{"eng"},
			PollIntervalMS: 200,
		},
		OCR: OCRCfg{
			TessdataPrefix: "${TESSDATA_PREFIX}",
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}
