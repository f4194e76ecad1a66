// Package metrics exposes Prometheus counters for function call and
// runtime error volume, the domain-stack observability surface named in
// the project's expanded specification (section B.3).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the counters for one interpreter instance. A nil
// *Registry is valid and turns every call into a no-op, so Environments
// built without hier.New (as in tests) don't need to wire Prometheus at
// all. Instances built by hier.New, including the one (eval ...) creates,
// always get a Registry.
type Registry struct {
	calls  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// New registers Hier's counters against reg. Pass prometheus.NewRegistry()
// for an isolated registry (tests, multiple Hier instances in one
// process) or prometheus.DefaultRegisterer to expose them on the default
// /metrics handler.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hier_function_calls_total",
			Help: "Number of Hier function calls dispatched by name.",
		}, []string{"name"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hier_runtime_errors_total",
			Help: "Number of Hier runtime errors raised by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.calls, r.errors)
	return r
}

func (r *Registry) FunctionCall(name string) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(name).Inc()
}

func (r *Registry) RuntimeError(kind string) {
	if r == nil {
		return
	}
	r.errors.WithLabelValues(kind).Inc()
}
