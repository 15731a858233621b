package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tinyland/lab/sysmon/status"
)

// Collector exports monitor snapshots as Prometheus metrics. Values are
// read at scrape time.
type Collector struct {
	src Source

	reading    *prometheus.Desc
	level      *prometheus.Desc
	overall    *prometheus.Desc
	uptime     *prometheus.Desc
	ticks      *prometheus.Desc
	logEntries *prometheus.Desc
	online     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector reading from src.
func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		reading: prometheus.NewDesc("sysmon_reading_value",
			"Raw value behind each status bar reading.", []string{"signal"}, nil),
		level: prometheus.NewDesc("sysmon_reading_level",
			"Severity of each reading: 0 normal, 1 warning, 2 critical, 3 unavailable.", []string{"signal"}, nil),
		overall: prometheus.NewDesc("sysmon_overall_level",
			"Worst severity across all readings.", nil, nil),
		uptime: prometheus.NewDesc("sysmon_uptime_seconds",
			"Seconds since the monitor started.", nil, nil),
		ticks: prometheus.NewDesc("sysmon_ticks_total",
			"Sampling ticks executed.", nil, nil),
		logEntries: prometheus.NewDesc("sysmon_log_entries",
			"Entries currently held by the event log.", nil, nil),
		online: prometheus.NewDesc("sysmon_online",
			"1 when the host reports network connectivity.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.reading
	ch <- c.level
	ch <- c.overall
	ch <- c.uptime
	ch <- c.ticks
	ch <- c.logEntries
	ch <- c.online
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.src.Snapshot()

	for _, r := range snap.Readings {
		if r.Level != status.LevelUnavailable {
			ch <- prometheus.MustNewConstMetric(c.reading, prometheus.GaugeValue, r.Raw, string(r.Signal))
		}
		ch <- prometheus.MustNewConstMetric(c.level, prometheus.GaugeValue, float64(r.Level), string(r.Signal))
	}

	online := 0.0
	if snap.Online {
		online = 1
	}

	ch <- prometheus.MustNewConstMetric(c.overall, prometheus.GaugeValue, float64(snap.Overall))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, snap.Uptime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(snap.Ticks))
	ch <- prometheus.MustNewConstMetric(c.logEntries, prometheus.GaugeValue, float64(len(snap.Logs)))
	ch <- prometheus.MustNewConstMetric(c.online, prometheus.GaugeValue, online)
}
