package main

import (
	"html"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/log"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"

	"minerdash/internal/config"
	"minerdash/internal/exporter"
	"minerdash/internal/snapshot"
)

const exporterName = "minerdash_exporter"

func main() {
	defaults := config.Default()

	var (
		listenAddress = kingpin.Flag("web.listen-address", "Address to listen on for web interface and telemetry.").Default(":9731").OverrideDefaultFromEnvar("MINERDASH_EXPORTER_PORT").String()
		metricsPath   = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics.").Default("/metrics").String()
		snapshotPath  = kingpin.Flag("snapshot.path", "Snapshot data file to export.").Default(defaults.DataPath).OverrideDefaultFromEnvar("MINERDASH_DATA").String()
		snapshotIndex = kingpin.Flag("snapshot.index", "Entry of the data file to export.").Default("19").OverrideDefaultFromEnvar("MINERDASH_INDEX").Int()
		loadTimeout   = kingpin.Flag("snapshot.timeout", "Timeout for loading the data file.").Default(defaults.LoadTimeout.String()).Duration()
	)

	log.AddFlags(kingpin.CommandLine)
	kingpin.Version(version.Print(exporterName))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	log.Infoln("Starting", exporterName, version.Info())
	log.Infoln("Build context", version.BuildContext())

	cfg := defaults.WithDataPath(*snapshotPath).WithSnapshotIndex(*snapshotIndex)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Fail fast on a bad file instead of exporting up=0 forever.
	if _, err := snapshot.LoadFile(cfg.DataPath); err != nil {
		log.Fatal(err)
	}

	exp := exporter.NewExporter(cfg.Source(), *loadTimeout)
	prometheus.MustRegister(exp)
	prometheus.MustRegister(version.NewCollector(exporterName))

	log.Infoln("Exporting", cfg.DataPath, "entry", cfg.SnapshotIndex)
	log.Infoln("Listening on", *listenAddress)
	http.Handle(*metricsPath, promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		last := "not scraped yet"
		if e := exp.Entry(); e != nil {
			last = html.EscapeString(e.Name)
		}
		w.Write([]byte(`<html>
             <head><title>Minerdash Exporter</title></head>
             <body>
             <h1>Minerdash Exporter</h1>
             <p>Last scraped entry: ` + last + `</p>
             <p><a href='` + *metricsPath + `'>Metrics</a></p>
             </body>
             </html>`))
	})
	log.Fatal(http.ListenAndServe(*listenAddress, nil))
}
