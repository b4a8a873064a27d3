// Package exporter exposes the projected snapshot as Prometheus metrics.
package exporter

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/log"

	"minerdash/internal/projector"
	"minerdash/internal/snapshot"
)

const Namespace = "minerdash"

var minerLabelNames = []string{"pdu", "port"}

func newMinerMetric(metricName, docString string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "miner", metricName), docString, minerLabelNames, nil)
}

// minerField reads one optional telemetry value off a device.
type minerField func(d snapshot.Device) *float64

var (
	upMetric = prometheus.NewDesc(prometheus.BuildFQName(Namespace, "", "up"), "Was the last snapshot load successful.", nil, nil)

	statusDevicesMetric = prometheus.NewDesc(prometheus.BuildFQName(Namespace, "status", "devices"), "Devices per status category.", []string{"category"}, nil)
	pduDevicesMetric    = prometheus.NewDesc(prometheus.BuildFQName(Namespace, "pdu", "devices"), "Devices attached to a PDU.", []string{"pdu"}, nil)
	pduEligibleMetric   = prometheus.NewDesc(prometheus.BuildFQName(Namespace, "pdu", "eligible_devices"), "Devices on a PDU reporting any telemetry.", []string{"pdu"}, nil)

	minerMetrics = []struct {
		desc  *prometheus.Desc
		field minerField
	}{
		{newMinerMetric("hashrate_5s", "Hashrate over the last 5 seconds."), func(d snapshot.Device) *float64 { return d.Hashrate5s }},
		{newMinerMetric("hashrate_avg", "Average hashrate over the last hour."), func(d snapshot.Device) *float64 { return d.HashrateAvg }},
		{newMinerMetric("temperature_celsius", "Board temperature."), func(d snapshot.Device) *float64 { return d.Temperature }},
		{newMinerMetric("frequency_mhz", "Chip frequency."), func(d snapshot.Device) *float64 { return d.Frequency }},
		{newMinerMetric("power_watts", "Power draw."), func(d snapshot.Device) *float64 { return d.Power }},
		{newMinerMetric("status_code", "Raw health status code."), func(d snapshot.Device) *float64 { return d.Status }},
	}
)

// Exporter collects miner metrics from a snapshot source on every scrape.
type Exporter struct {
	source  snapshot.Source
	timeout time.Duration
	mutex   sync.RWMutex
	entry   *snapshot.Entry

	totalScrapes prometheus.Counter
	loadFailures prometheus.Counter
}

func NewExporter(source snapshot.Source, timeout time.Duration) *Exporter {
	return &Exporter{
		source:  source,
		timeout: timeout,
		totalScrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exporter_scrapes_total",
			Help:      "Current total snapshot scrapes.",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "exporter_load_errors_total",
			Help:      "Number of errors while loading the snapshot.",
		}),
	}
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range minerMetrics {
		ch <- m.desc
	}
	ch <- upMetric
	ch <- statusDevicesMetric
	ch <- pduDevicesMetric
	ch <- pduEligibleMetric
	ch <- e.totalScrapes.Desc()
	ch <- e.loadFailures.Desc()
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	up := e.scrape(ch)
	ch <- prometheus.MustNewConstMetric(upMetric, prometheus.GaugeValue, up)

	ch <- e.totalScrapes
	ch <- e.loadFailures
}

// Entry returns the entry seen by the last successful scrape.
func (e *Exporter) Entry() *snapshot.Entry {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.entry
}

func (e *Exporter) scrape(ch chan<- prometheus.Metric) (up float64) {
	e.totalScrapes.Inc()

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	entry, err := e.source.Load(ctx)
	if err != nil {
		log.Errorln("Failed to load snapshot:", err)
		e.loadFailures.Inc()
		return 0
	}
	e.entry = entry

	proj := projector.Project(entry)

	for _, b := range proj.Histogram {
		ch <- prometheus.MustNewConstMetric(statusDevicesMetric, prometheus.GaugeValue, float64(b.Count), b.Category.Label)
	}

	for _, grp := range proj.Groups.Groups {
		pdu := strconv.Itoa(grp.PDU)
		eligible := 0
		seen := make(map[int]bool, len(grp.Devices))
		for _, d := range grp.Devices {
			if !projector.IsDisplayEligible(d) {
				continue
			}
			eligible++
			// A duplicate PDU/port pair would collide on labels; the first one wins.
			if seen[d.Port] {
				log.Warnln("Duplicate miner", d.Key(), "skipped")
				continue
			}
			seen[d.Port] = true

			port := strconv.Itoa(d.Port)
			for _, m := range minerMetrics {
				if v := m.field(d); v != nil {
					ch <- prometheus.MustNewConstMetric(m.desc, prometheus.GaugeValue, *v, pdu, port)
				}
			}
		}
		ch <- prometheus.MustNewConstMetric(pduDevicesMetric, prometheus.GaugeValue, float64(len(grp.Devices)), pdu)
		ch <- prometheus.MustNewConstMetric(pduEligibleMetric, prometheus.GaugeValue, float64(eligible), pdu)
	}

	return 1
}
