package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MigrationsTotal counts finished runs by workflow and status
	// ("ok", "error", "empty").
	MigrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ferry_migrations_total",
		Help: "Completed migration runs by workflow and status.",
	}, []string{"workflow", "status"})

	// MigrationDuration is the wall time of a run.
	MigrationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "ferry_migration_duration_seconds",
		Help: "Wall time of a migration run.",
	}, []string{"workflow"})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
