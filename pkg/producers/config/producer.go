// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cobaltcore-dev/smartdump/pkg/producers/diskhealth"
	"github.com/cobaltcore-dev/smartdump/pkg/report"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smartctl"
)

const (
	TypeDiskHealth = "disk_health"
	TypeDiskReport = "disk_report"
)

// Supervisor runs the configured producers and forwards threshold changes
// from a reloaded config to the disk health producers that are running.
type Supervisor struct {
	mu      sync.Mutex
	updates map[string]chan diskhealth.Thresholds
}

func NewSupervisor() *Supervisor {
	return &Supervisor{updates: make(map[string]chan diskhealth.Thresholds)}
}

func (s *Supervisor) StartProducers(ctx context.Context, producer ProducerConfig, globalConfig GlobalConfig, wg *sync.WaitGroup) {
	defer wg.Done()

	switch producer.Type {
	case TypeDiskHealth:
		settings := DiskHealthSettings(producer, globalConfig)
		log.Info().Str("name", producer.Name).Msg("--- disk health ---")
		diskhealth.StartMonitoring(ctx, settings, s.subscribe(producer.Name))
	case TypeDiskReport:
		settings := DiskReportSettings(producer, globalConfig)
		backend := smartctl.New(
			smartctl.WithRunner(smartctl.ExecRunner{Path: globalConfig.SmartctlPath}),
			smartctl.WithDeviceType(GetStringSetting(producer.Settings, "device_type", "")),
		)
		log.Info().Str("name", producer.Name).Msg("--- disk report ---")
		report.StartArchiving(ctx, settings, backend)
	default:
		log.Warn().Msgf("unknown producer type: %s", producer.Type)
	}
}

func (s *Supervisor) subscribe(name string) <-chan diskhealth.Thresholds {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan diskhealth.Thresholds, 1)
	s.updates[name] = ch
	return ch
}

// Reload pushes the thresholds of every disk health producer in cfg to the
// running producer of the same name. Other settings need a restart.
func (s *Supervisor) Reload(cfg *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, producer := range cfg.Producers {
		if producer.Type != TypeDiskHealth {
			continue
		}
		ch, ok := s.updates[producer.Name]
		if !ok {
			log.Warn().Str("name", producer.Name).Msg("new producer in config, restart to start it")
			continue
		}
		t := DiskHealthSettings(producer, cfg.Global).Thresholds()
		// keep only the latest update if the producer has not picked up the last one
		select {
		case <-ch:
		default:
		}
		ch <- t
	}
}

// DiskHealthSettings turns a producer entry into a diskhealth config, falling
// back to the global section for connection and identity settings.
func DiskHealthSettings(producer ProducerConfig, globalConfig GlobalConfig) diskhealth.DiskHealthConfig {
	natsURL := GetStringSetting(producer.Settings, "nats_url", globalConfig.NatsURL)
	return diskhealth.DiskHealthConfig{
		NatsURL:                     natsURL,
		NatsSubject:                 GetStringSetting(producer.Settings, "nats_subject", "osd.disk.health"),
		UseNats:                     natsURL != "",
		Prometheus:                  GetBoolSetting(producer.Settings, "prometheus", false),
		PrometheusPort:              GetIntSetting(producer.Settings, "prometheus_port", 8080),
		Disks:                       GetStringSliceSetting(producer.Settings, "disks", []string{"*"}),
		Interval:                    GetIntSetting(producer.Settings, "interval", 60),
		NodeName:                    GetStringSetting(producer.Settings, "node_name", globalConfig.NodeName),
		InstanceID:                  GetStringSetting(producer.Settings, "instance_id", globalConfig.InstanceID),
		SmartctlPath:                GetStringSetting(producer.Settings, "smartctl_path", globalConfig.SmartctlPath),
		DeviceType:                  GetStringSetting(producer.Settings, "device_type", ""),
		SkipStandby:                 GetBoolSetting(producer.Settings, "skip_standby", false),
		WatchDir:                    GetStringSetting(producer.Settings, "watch_dir", ""),
		PendingSectorsThreshold:     GetInt64Setting(producer.Settings, "pending_sectors_threshold", 3),
		ReallocatedSectorsThreshold: GetInt64Setting(producer.Settings, "reallocated_sectors_threshold", 10),
		TemperatureThreshold:        GetInt64Setting(producer.Settings, "temperature_threshold", 60),
	}
}

func DiskReportSettings(producer ProducerConfig, globalConfig GlobalConfig) report.ArchiveConfig {
	return report.ArchiveConfig{
		Disks:    GetStringSliceSetting(producer.Settings, "disks", nil),
		Interval: GetIntSetting(producer.Settings, "interval", 3600),
		NodeName: GetStringSetting(producer.Settings, "node_name", globalConfig.NodeName),
		S3: report.S3Config{
			Bucket:    GetStringSetting(producer.Settings, "bucket", ""),
			Prefix:    GetStringSetting(producer.Settings, "prefix", ""),
			Endpoint:  GetStringSetting(producer.Settings, "s3_endpoint", globalConfig.S3Endpoint),
			Region:    GetStringSetting(producer.Settings, "s3_region", globalConfig.S3Region),
			AccessKey: GetStringSetting(producer.Settings, "access_key", globalConfig.AccessKey),
			SecretKey: GetStringSetting(producer.Settings, "secret_key", globalConfig.SecretKey),
		},
	}
}
