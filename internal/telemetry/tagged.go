package telemetry

type tagged struct {
	next  Reporter
	key   string
	value string
}

// Tagged stamps key=value onto every metric tag set and event field set
// before forwarding. Values supplied at the call site win on collision,
// so wrappers can nest without clobbering more specific tags.
func Tagged(next Reporter, key, value string) Reporter {
	return &tagged{next: next, key: key, value: value}
}

func (t *tagged) Metric(name string, value float64, tags map[string]string) {
	merged := make(map[string]string, len(tags)+1)
	merged[t.key] = t.value
	for k, v := range tags {
		merged[k] = v
	}
	t.next.Metric(name, value, merged)
}

func (t *tagged) Event(name string, fields map[string]any) {
	merged := make(map[string]any, len(fields)+1)
	merged[t.key] = t.value
	for k, v := range fields {
		merged[k] = v
	}
	t.next.Event(name, merged)
}
