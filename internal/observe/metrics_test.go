package observe_test

import (
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/sorilab/phonocheck/internal/observe"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(t.Context()) })

	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	if m.PromptsSpoken == nil || m.Recordings == nil || m.RecordingDuration == nil ||
		m.Responses == nil || m.Similarity == nil || m.SessionRestarts == nil ||
		m.ActiveSessions == nil {
		t.Fatalf("NewMetrics() left instruments nil: %+v", m)
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	t.Parallel()

	a, err := observe.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	b, err := observe.Default()
	if err != nil {
		t.Fatalf("Default() second call error = %v", err)
	}
	if a != b {
		t.Fatal("Default() returned different instances")
	}
}
