// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var diskLabels = []string{"disk", "node", "instance"}

var (
	overallHealthGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_overall_health",
			Help: "Overall disk health: 0 good, 1 bad attribute in the past, 2 bad sector, 3 bad attribute now, 4 many bad sectors, 5 bad status",
		},
		diskLabels,
	)

	statusPassedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_status_passed",
			Help: "Whether the SMART self-assessment passed (1) or failed (0)",
		},
		diskLabels,
	)

	temperatureGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disk_temperature_celsius",
			Help: "Disk temperature in Celsius",
		},
		diskLabels,
	)

	powerOnHoursGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disk_power_on_hours",
			Help: "Number of hours the disk has been powered on",
		},
		diskLabels,
	)

	powerCyclesGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disk_power_cycles",
			Help: "Number of complete power on/off cycles",
		},
		diskLabels,
	)

	badSectorsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disk_bad_sectors",
			Help: "Number of reallocated plus pending sectors",
		},
		diskLabels,
	)

	attributeValueGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_value",
			Help: "Normalized current value of a SMART attribute",
		},
		[]string{"disk", "node", "instance", "id", "attribute"},
	)

	attributeRawGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smart_attribute_raw",
			Help: "Raw counter of a SMART attribute",
		},
		[]string{"disk", "node", "instance", "id", "attribute"},
	)
)

var allGauges = []*prometheus.GaugeVec{
	overallHealthGauge,
	statusPassedGauge,
	temperatureGauge,
	powerOnHoursGauge,
	powerCyclesGauge,
	badSectorsGauge,
	attributeValueGauge,
	attributeRawGauge,
}

func init() {
	// Register all metrics with Prometheus's default registry
	for _, g := range allGauges {
		prometheus.MustRegister(g)
	}
}

// PublishToPrometheus publishes the snapshots to Prometheus
func PublishToPrometheus(snapshots []Snapshot) {
	for _, s := range snapshots {
		labels := prometheus.Labels{
			"disk":     s.Device,
			"node":     s.NodeName,
			"instance": s.InstanceID,
		}

		if s.Overall != nil {
			overallHealthGauge.With(labels).Set(float64(*s.Overall))
		}

		if s.StatusPassed != nil {
			v := 0.0
			if *s.StatusPassed {
				v = 1
			}
			statusPassedGauge.With(labels).Set(v)
		}

		if s.TemperatureCelsius != nil {
			temperatureGauge.With(labels).Set(*s.TemperatureCelsius)
		}

		if s.PowerOnHours != nil {
			powerOnHoursGauge.With(labels).Set(*s.PowerOnHours)
		}

		if s.PowerCycles != nil {
			powerCyclesGauge.With(labels).Set(float64(*s.PowerCycles))
		}

		if s.BadSectors != nil {
			badSectorsGauge.With(labels).Set(float64(*s.BadSectors))
		}

		for _, a := range s.Attributes {
			attrLabels := prometheus.Labels{
				"disk":      s.Device,
				"node":      s.NodeName,
				"instance":  s.InstanceID,
				"id":        strconv.Itoa(int(a.ID)),
				"attribute": a.Name,
			}
			if a.Value != nil {
				attributeValueGauge.With(attrLabels).Set(float64(*a.Value))
			}
			attributeRawGauge.With(attrLabels).Set(float64(a.RawValue()))
		}
	}
}

// forgetDisk drops every series of a disk that is no longer monitored.
func forgetDisk(device string) {
	for _, g := range allGauges {
		g.DeletePartialMatch(prometheus.Labels{"disk": device})
	}
}

func newMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
}

// StartPrometheusServer serves /metrics on port until the returned server is closed.
// Each call gets its own mux, so several producers may export on different ports.
func StartPrometheusServer(port int) *http.Server {
	srv := newMetricsServer(port)
	go func() {
		log.Info().Msgf("starting prometheus metrics server on :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Int("port", port).Msg("error starting prometheus metrics server")
		}
	}()
	return srv
}
