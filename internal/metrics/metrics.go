// Package metrics exposes Prometheus collectors for a scpi.Dispatcher.
// Only collector registration is provided here — no HTTP server is
// started, since wiring a transport is outside this module's scope; a
// host process is expected to serve /metrics itself via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	scpi "github.com/Nine-Fives/go-scpi-parser"
)

// Metrics groups the counters and gauges a Dispatcher reports into.
type Metrics struct {
	commandsExecuted  prometheus.Counter
	errorsByRange      *prometheus.CounterVec
	queryInterrupts    prometheus.Counter
	queueOverflows     prometheus.Counter
	queueDepth         prometheus.Gauge
}

// New builds and registers the collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scpi_commands_executed_total",
			Help: "Number of SCPI commands whose header resolved to a registered node or common command.",
		}),
		errorsByRange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scpi_errors_total",
			Help: "Number of errors the dispatcher recorded for split, resolve, missing-handler and handler-return failures, by error class. Errors pushed directly by handlers and query-sequence errors are not counted.",
		}, []string{"class"}),
		queryInterrupts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scpi_query_interrupts_total",
			Help: "Number of times a pending query response was discarded by a new command.",
		}),
		queueOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scpi_error_queue_overflows_total",
			Help: "Number of times the error queue discarded an entry because it was full.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scpi_error_queue_depth",
			Help: "Number of entries in the error queue when the dispatcher last recorded an error.",
		}),
	}
	reg.MustRegister(m.commandsExecuted, m.errorsByRange, m.queryInterrupts, m.queueOverflows, m.queueDepth)
	return m
}

func (m *Metrics) CommandExecuted() { m.commandsExecuted.Inc() }

// ErrorPushed increments the counter for code's error class.
func (m *Metrics) ErrorPushed(code scpi.Code) {
	class := errorClass(code)
	m.errorsByRange.WithLabelValues(class).Inc()
}

func errorClass(code scpi.Code) string {
	switch {
	case code == 0:
		return "none"
	case code <= -100 && code >= -199:
		return "command"
	case code <= -200 && code >= -299:
		return "execution"
	case code <= -300 && code >= -399:
		return "device"
	case code <= -400 && code >= -499:
		return "query"
	case code > 0:
		return "device-defined"
	default:
		return "unknown"
	}
}

func (m *Metrics) QueryInterrupted()    { m.queryInterrupts.Inc() }
func (m *Metrics) QueueOverflow()       { m.queueOverflows.Inc() }
func (m *Metrics) SetQueueDepth(n int)  { m.queueDepth.Set(float64(n)) }
