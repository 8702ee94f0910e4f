package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Fatal("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}

	if Gatherer != prometheus.DefaultGatherer {
		t.Error("Gatherer should be the default Prometheus gatherer")
	}
}

func TestRegistry_AcceptsCollectors(t *testing.T) {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiftpulse_registry_probe_total",
		Help: "Probe counter used only by this test.",
	})

	if err := Registry.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(func() {
		prometheus.Unregister(c)
	})

	c.Inc()
}
