package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the import pipeline counters.
type Metrics struct {
	registry *prometheus.Registry

	RecordsImported   prometheus.Counter
	SheetsSkipped     prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	ClipRecords       prometheus.Counter
	ImportFailures    prometheus.Counter
}

// New builds a self-contained registry with the pipeline counters.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		RecordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rolldepot_import_records_total",
			Help: "Rows retained by workbook imports.",
		}),
		SheetsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rolldepot_import_sheets_skipped_total",
			Help: "Sheets skipped for missing data or mandatory headers.",
		}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rolldepot_import_duplicates_total",
			Help: "Depot-sheet rows dropped as duplicates.",
		}),
		ClipRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rolldepot_clip_records_total",
			Help: "Records imported from pasted tab-delimited text.",
		}),
		ImportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rolldepot_import_failures_total",
			Help: "Imports aborted by precondition or workbook errors.",
		}),
	}
	registry.MustRegister(
		m.RecordsImported,
		m.SheetsSkipped,
		m.DuplicatesSkipped,
		m.ClipRecords,
		m.ImportFailures,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
