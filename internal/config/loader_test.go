package config_test

import (
	"strings"
	"testing"

	"github.com/sorilab/phonocheck/internal/config"
)

func TestLoadFromReaderDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(`
bank:
  path: configs/questions.yaml
`))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}

	if got := cfg.Server.LogLevel; got != config.LogInfo {
		t.Errorf("log level = %v, want info", got)
	}
	if got := cfg.Speech.Rate; got != 0.8 {
		t.Errorf("speech rate = %v, want 0.8", got)
	}
	if got := cfg.Verify.Threshold; got != 0 {
		t.Errorf("threshold = %v, want 0 (verifier default applies downstream)", got)
	}
}

func TestLoadFromReaderFull(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(`
server:
  listen_addr: ":9090"
  log_level: debug
speech:
  rate: 1.2
  language: ko-KR
verify:
  threshold: 0.9
bank:
  path: bank.yaml
`))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}

	if got := cfg.Server.ListenAddr; got != ":9090" {
		t.Errorf("listen_addr = %q, want :9090", got)
	}
	if got := cfg.Server.LogLevel; got != config.LogDebug {
		t.Errorf("log level = %v, want debug", got)
	}
	if got := cfg.Speech.Language; got != "ko-KR" {
		t.Errorf("language = %q, want ko-KR", got)
	}
	if got := cfg.Verify.Threshold; got != 0.9 {
		t.Errorf("threshold = %v, want 0.9", got)
	}
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader(`
bank:
  path: bank.yaml
speach:
  rate: 0.8
`))
	if err == nil {
		t.Fatal("LoadFromReader() = nil error for misspelled section")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad log level",
			yaml:    "server:\n  log_level: verbose\nbank:\n  path: b.yaml\n",
			wantErr: "log_level",
		},
		{
			name:    "rate too low",
			yaml:    "speech:\n  rate: 0.1\nbank:\n  path: b.yaml\n",
			wantErr: "speech.rate",
		},
		{
			name:    "rate too high",
			yaml:    "speech:\n  rate: 3.0\nbank:\n  path: b.yaml\n",
			wantErr: "speech.rate",
		},
		{
			name:    "threshold out of range",
			yaml:    "verify:\n  threshold: 1.5\nbank:\n  path: b.yaml\n",
			wantErr: "verify.threshold",
		},
		{
			name:    "missing bank path",
			yaml:    "speech:\n  rate: 0.8\n",
			wantErr: "bank.path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadFromReader() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
