// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/host"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/producers/diskhealth"
)

var (
	dhNatsURL                     string
	dhNatsSubject                 string
	dhPromEnabled                 bool
	dhPromPort                    int
	dhDisksFlag                   string
	dhNodeName                    string
	dhInstanceID                  string
	dhInterval                    int
	dhSkipStandby                 bool
	dhWatchDir                    string
	dhPendingSectorsThreshold     int64
	dhReallocatedSectorsThreshold int64
	dhTemperatureThreshold        int64
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Periodically collect S.M.A.R.T. health and export it as metrics and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := diskhealth.DiskHealthConfig{
			NatsURL:                     dhNatsURL,
			NatsSubject:                 dhNatsSubject,
			Prometheus:                  dhPromEnabled,
			PrometheusPort:              dhPromPort,
			Disks:                       splitDisks(dhDisksFlag),
			NodeName:                    dhNodeName,
			InstanceID:                  dhInstanceID,
			Interval:                    dhInterval,
			SmartctlPath:                smartctlPath,
			DeviceType:                  deviceType,
			SkipStandby:                 dhSkipStandby,
			WatchDir:                    dhWatchDir,
			PendingSectorsThreshold:     dhPendingSectorsThreshold,
			ReallocatedSectorsThreshold: dhReallocatedSectorsThreshold,
			TemperatureThreshold:        dhTemperatureThreshold,
		}

		config = mergeDiskHealthConfigWithEnv(config)
		config.UseNats = config.NatsURL != ""
		if config.NodeName == "" {
			config.NodeName = defaultNodeName()
		}
		if config.InstanceID == "" {
			config.InstanceID = uuid.NewString()
		}

		if err := validateDiskHealthConfig(config); err != nil {
			return err
		}

		event := log.Info()
		event.Bool("use_nats", config.UseNats)
		if config.UseNats {
			event.Str("nats_url", config.NatsURL)
			event.Str("nats_subject", config.NatsSubject)
		}

		event.Bool("prometheus_enabled", config.Prometheus)
		if config.Prometheus {
			event.Int("prometheus_port", config.PrometheusPort)
		}

		event.Strs("disks", config.Disks).
			Str("node_name", config.NodeName).
			Str("instance_id", config.InstanceID).
			Int("interval_seconds", config.Interval).
			Bool("skip_standby", config.SkipStandby)

		event.Msg("configuration_loaded")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		diskhealth.StartMonitoring(ctx, config, nil)
		return nil
	},
}

func mergeDiskHealthConfigWithEnv(cfg diskhealth.DiskHealthConfig) diskhealth.DiskHealthConfig {
	cfg.NatsURL = getEnv("NATS_URL", cfg.NatsURL)
	cfg.NatsSubject = getEnv("NATS_SUBJECT", cfg.NatsSubject)
	cfg.Prometheus = getEnvBool("PROMETHEUS", cfg.Prometheus)
	cfg.PrometheusPort = getEnvInt("PROMETHEUS_PORT", cfg.PrometheusPort)
	if disksEnv := getEnv("DISKS", ""); disksEnv != "" {
		cfg.Disks = splitDisks(disksEnv)
	}
	cfg.NodeName = getEnv("NODE_NAME", cfg.NodeName)
	cfg.InstanceID = getEnv("INSTANCE_ID", cfg.InstanceID)
	cfg.Interval = getEnvInt("INTERVAL", cfg.Interval)
	cfg.SkipStandby = getEnvBool("SKIP_STANDBY", cfg.SkipStandby)
	cfg.WatchDir = getEnv("WATCH_DIR", cfg.WatchDir)
	cfg.PendingSectorsThreshold = getEnvInt64("PENDING_SECTORS_THRESHOLD", cfg.PendingSectorsThreshold)
	cfg.ReallocatedSectorsThreshold = getEnvInt64("REALLOCATED_SECTORS_THRESHOLD", cfg.ReallocatedSectorsThreshold)
	cfg.TemperatureThreshold = getEnvInt64("TEMPERATURE_THRESHOLD", cfg.TemperatureThreshold)

	return cfg
}

func validateDiskHealthConfig(config diskhealth.DiskHealthConfig) error {
	var missing []string
	if len(config.Disks) == 0 {
		missing = append(missing, "--disks or DISKS must be set")
	}
	if config.Interval <= 0 {
		missing = append(missing, "--interval or INTERVAL must be positive")
	}
	if config.Prometheus && config.PrometheusPort <= 0 {
		missing = append(missing, "--prometheus-port or PROMETHEUS_PORT must be set")
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, "; "))
	}
	return nil
}

func splitDisks(s string) []string {
	var disks []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			disks = append(disks, d)
		}
	}
	return disks
}

// defaultNodeName is the host name, or "unknown" when it cannot be read.
func defaultNodeName() string {
	info, err := host.Info()
	if err != nil || info.Hostname == "" {
		log.Warn().Err(err).Msg("could not determine host name")
		return "unknown"
	}
	return info.Hostname
}

func init() {
	monitorCmd.Flags().StringVar(&dhNatsURL, "nats-url", "", "NATS server URL")
	monitorCmd.Flags().StringVar(&dhNatsSubject, "nats-subject", "osd.disk.health", "NATS subject to publish health events")
	monitorCmd.Flags().BoolVar(&dhPromEnabled, "prometheus", false, "Enable Prometheus metrics")
	monitorCmd.Flags().IntVar(&dhPromPort, "prometheus-port", 8080, "Prometheus metrics port")
	monitorCmd.Flags().StringVar(&dhDisksFlag, "disks", "*", "Comma separated list of disks to monitor, * to scan")
	monitorCmd.Flags().StringVar(&dhNodeName, "node-name", "", "Node name (defaults to the hostname)")
	monitorCmd.Flags().StringVar(&dhInstanceID, "instance-id", "", "Instance ID (defaults to a random UUID)")
	monitorCmd.Flags().IntVar(&dhInterval, "interval", 60, "Interval in seconds between collections")
	monitorCmd.Flags().BoolVar(&dhSkipStandby, "skip-standby", false, "Do not wake up disks in standby")
	monitorCmd.Flags().StringVar(&dhWatchDir, "watch-dir", "", "Rescan disks when device nodes appear or vanish in this directory, e.g. /dev")
	monitorCmd.Flags().Int64Var(&dhPendingSectorsThreshold, "pending-sectors-threshold", 3, "Threshold for pending sectors to trigger a warning")
	monitorCmd.Flags().Int64Var(&dhReallocatedSectorsThreshold, "reallocated-sectors-threshold", 10, "Threshold for reallocated sectors to trigger a warning")
	monitorCmd.Flags().Int64Var(&dhTemperatureThreshold, "temperature-threshold", 60, "Temperature in celsius that triggers a warning")
}
