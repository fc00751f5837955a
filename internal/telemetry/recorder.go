package telemetry

import "sync"

// RecordedMetric is one Metric call seen by a Recorder.
type RecordedMetric struct {
	Name  string
	Value float64
	Tags  map[string]string
}

// RecordedEvent is one Event call seen by a Recorder.
type RecordedEvent struct {
	Name   string
	Fields map[string]any
}

// Recorder is a Reporter that keeps everything it receives, for tests
// and development introspection.
type Recorder struct {
	mu      sync.Mutex
	metrics []RecordedMetric
	events  []RecordedEvent
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Metric(name string, value float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, RecordedMetric{Name: name, Value: value, Tags: tags})
}

func (r *Recorder) Event(name string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{Name: name, Fields: fields})
}

// Metrics returns a copy of the recorded metrics in arrival order.
func (r *Recorder) Metrics() []RecordedMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedMetric(nil), r.metrics...)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}
