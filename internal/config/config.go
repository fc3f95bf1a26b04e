// Package config provides the configuration schema and loader for the
// phonocheck assessment server.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for phonocheck.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	Speech SpeechConfig `yaml:"speech"`
	Verify VerifyConfig `yaml:"verify"`
	Bank   BankConfig   `yaml:"bank"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the health/metrics endpoints listen on
	// (e.g., ":8080"). Empty disables the HTTP server.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Empty defaults to info.
	LogLevel LogLevel `yaml:"log_level"`
}

// SpeechConfig holds speech-synthesis settings applied to every utterance.
type SpeechConfig struct {
	// Rate is the playback-speed multiplier for spoken prompts. The
	// assessment speaks slowly on purpose; the default is 0.8.
	Rate float64 `yaml:"rate"`

	// Language is the BCP-47 tag for synthesis and recognition (e.g. "ko-KR").
	// Informational for backends that support it.
	Language string `yaml:"language"`
}

// VerifyConfig holds answer-verification settings.
type VerifyConfig struct {
	// Threshold is the minimum similarity score for a non-exact answer to be
	// accepted. 0 defaults to 0.8.
	Threshold float64 `yaml:"threshold"`
}

// BankConfig locates the question bank.
type BankConfig struct {
	// Path is the question bank YAML file.
	Path string `yaml:"path"`
}

// defaultRate is applied when speech.rate is unset.
const defaultRate = 0.8

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if c.Speech.Rate == 0 {
		c.Speech.Rate = defaultRate
	}
}
