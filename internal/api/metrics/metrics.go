// Package metrics defines the custom Prometheus metrics for the todo API. It
// is the single source of truth for metric names, labels and help strings.
//
// Call New once at startup with the registry that /metrics serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// Login outcomes used as the "result" label of LoginsTotal.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

type Metrics struct {
	// UsersRegisteredTotal counts accounts created.
	UsersRegisteredTotal prometheus.Counter

	// LoginsTotal counts login attempts.
	// Label:
	//   - result: "success" or "failure"
	LoginsTotal *prometheus.CounterVec

	// LogoutsTotal counts tokens revoked through /api/logout.
	LogoutsTotal prometheus.Counter

	// TodosCreatedTotal and TodosDeletedTotal count note mutations.
	TodosCreatedTotal prometheus.Counter
	TodosDeletedTotal prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegisteredTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users.",
		}),
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),
		LogoutsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Total number of tokens revoked by logout.",
		}),
		TodosCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "todos_created_total",
			Help:      "Total number of todos created.",
		}),
		TodosDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "todos_deleted_total",
			Help:      "Total number of todos deleted.",
		}),
	}
}
