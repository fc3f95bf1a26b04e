// Package observe provides application-wide observability primitives for
// phonocheck: OpenTelemetry metrics and the SDK provider setup that bridges
// them to a Prometheus /metrics endpoint.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([Default]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all phonocheck metrics.
const meterName = "github.com/sorilab/phonocheck"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// PromptsSpoken counts utterances sent to the speaker. Use with attribute:
	//   attribute.String("kind", "guide"|"question"|"feedback")
	PromptsSpoken metric.Int64Counter

	// Recordings counts completed captures. Use with attribute:
	//   attribute.Bool("empty", ...)
	Recordings metric.Int64Counter

	// RecordingDuration tracks captured take lengths in seconds.
	RecordingDuration metric.Float64Histogram

	// Responses counts recorded answers. Use with attributes:
	//   attribute.String("phase", ...), attribute.String("verdict", ...)
	Responses metric.Int64Counter

	// Similarity tracks the verifier's similarity scores for non-exact
	// answers, exposing how close transcriptions land to the 0.8 threshold.
	Similarity metric.Float64Histogram

	// SessionRestarts counts full session restarts.
	SessionRestarts metric.Int64Counter

	// ActiveSessions tracks the number of live assessment sessions.
	ActiveSessions metric.Int64UpDownCounter
}

// similarityBuckets defines histogram boundaries for the [0, 1] score space,
// dense around the acceptance threshold.
var similarityBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1,
}

// durationBuckets defines histogram boundaries (in seconds) for spoken-answer
// take lengths.
var durationBuckets = []float64{
	1, 2, 3, 5, 8, 13, 21, 34,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.PromptsSpoken, err = m.Int64Counter("phonocheck.prompts.spoken",
		metric.WithDescription("Number of utterances sent to the speaker."),
	); err != nil {
		return nil, err
	}
	if met.Recordings, err = m.Int64Counter("phonocheck.recordings",
		metric.WithDescription("Number of completed audio captures."),
	); err != nil {
		return nil, err
	}
	if met.RecordingDuration, err = m.Float64Histogram("phonocheck.recording.duration",
		metric.WithDescription("Length of captured takes."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Responses, err = m.Int64Counter("phonocheck.responses",
		metric.WithDescription("Number of recorded answers."),
	); err != nil {
		return nil, err
	}
	if met.Similarity, err = m.Float64Histogram("phonocheck.verify.similarity",
		metric.WithDescription("Similarity scores of non-exact answers."),
		metric.WithExplicitBucketBoundaries(similarityBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SessionRestarts, err = m.Int64Counter("phonocheck.session.restarts",
		metric.WithDescription("Number of full session restarts."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("phonocheck.sessions.active",
		metric.WithDescription("Number of live assessment sessions."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
	defaultErr     error
)

// Default returns the process-wide [Metrics] instance backed by the global
// OTel meter provider, creating it on first use.
func Default() (*Metrics, error) {
	defaultOnce.Do(func() {
		defaultMetrics, defaultErr = NewMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultErr
}
