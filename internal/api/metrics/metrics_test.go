package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.UsersRegisteredTotal.Inc()
	m.LoginsTotal.WithLabelValues(LoginSuccess).Inc()
	m.LoginsTotal.WithLabelValues(LoginFailure).Add(2)
	m.TodosCreatedTotal.Inc()

	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues(LoginFailure)); got != 2 {
		t.Fatalf("expected 2 failed logins, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"todo_users_registered_total", "todo_logins_total", "todo_todos_created_total"} {
		if !names[want] {
			t.Fatalf("metric %s not registered", want)
		}
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Registering twice on the same registry panics; separate ones must not.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
