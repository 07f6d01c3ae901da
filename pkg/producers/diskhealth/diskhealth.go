// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smartctl"
)

// ScanFunc lists the device paths to monitor when the disk list is "*".
type ScanFunc func(ctx context.Context) ([]string, error)

// Monitor keeps one lazily opened smart.Disk per monitored device.
type Monitor struct {
	cfg     DiskHealthConfig
	backend smart.Backend
	scan    ScanFunc

	mu    sync.Mutex
	disks map[string]*smart.Disk
}

func NewMonitor(cfg DiskHealthConfig, backend smart.Backend, scan ScanFunc) *Monitor {
	return &Monitor{
		cfg:     cfg,
		backend: backend,
		scan:    scan,
		disks:   make(map[string]*smart.Disk),
	}
}

// Refresh reconciles the monitored set with the configured or discovered
// devices. Devices that went away are closed and their metrics dropped.
func (m *Monitor) Refresh(ctx context.Context) error {
	paths := m.cfg.Disks
	if m.cfg.Wildcard() {
		if m.scan == nil {
			return errors.New("device discovery requested but no scanner configured")
		}
		var err error
		paths, err = m.scan(ctx)
		if err != nil {
			return fmt.Errorf("error discovering devices: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		want[p] = true
		if _, ok := m.disks[p]; !ok {
			m.disks[p] = smart.NewDisk(p, m.backend)
			log.Info().Str("device", p).Msg("device added to monitoring")
		}
	}
	for p, d := range m.disks {
		if want[p] {
			continue
		}
		if err := d.Close(); err != nil {
			log.Warn().Err(err).Str("device", p).Msg("error closing removed device")
		}
		delete(m.disks, p)
		forgetDisk(p)
		log.Info().Str("device", p).Msg("device removed from monitoring")
	}
	return nil
}

// Devices returns the monitored device paths in order.
func (m *Monitor) Devices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.disks))
	for p := range m.disks {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Collect takes a snapshot of every monitored disk.
func (m *Monitor) Collect(ctx context.Context) []Snapshot {
	var snapshots []Snapshot
	for _, p := range m.Devices() {
		m.mu.Lock()
		d, ok := m.disks[p]
		m.mu.Unlock()
		if !ok {
			continue
		}
		snapshots = append(snapshots, collectSnapshot(ctx, d, m.cfg))
	}
	return snapshots
}

func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p, d := range m.disks {
		if err := d.Close(); err != nil {
			log.Warn().Err(err).Str("device", p).Msg("error closing device")
		}
	}
}

// collectSnapshot reads one disk. Values the disk does not keep are left
// unset; every other failure is recorded in the snapshot and logged.
func collectSnapshot(ctx context.Context, d *smart.Disk, cfg DiskHealthConfig) Snapshot {
	snap := Snapshot{
		NodeName:    cfg.NodeName,
		InstanceID:  cfg.InstanceID,
		Device:      d.Path(),
		CollectedAt: time.Now().UTC(),
	}
	record := func(err error) bool {
		if err == nil {
			return true
		}
		if !errors.Is(err, smart.ErrNotAvailable) {
			log.Error().Err(err).Str("device", d.Path()).Msg("error collecting SMART data")
			snap.Errors = append(snap.Errors, err.Error())
		}
		return false
	}

	if cfg.SkipStandby {
		awake, err := d.SleepMode(ctx)
		if record(err) && !awake {
			log.Debug().Str("device", d.Path()).Msg("device in standby, skipping")
			snap.Asleep = true
			return snap
		}
	}

	if !record(d.ReadData(ctx)) {
		return snap
	}

	if id, err := d.IdentifyData(ctx); record(err) {
		snap.Identify = &id
	}
	if size, err := d.Size(ctx); record(err) {
		snap.SizeBytes = size
	}
	if passed, err := d.Status(ctx); record(err) {
		snap.StatusPassed = &passed
	}
	if o, err := d.OverallHealth(ctx); record(err) {
		snap.Overall = &o
	}
	if c, err := d.Temperature(ctx); record(err) {
		snap.TemperatureCelsius = &c
	}
	if on, err := d.PowerOn(ctx); record(err) {
		hours := on.Hours()
		snap.PowerOnHours = &hours
	}
	if n, err := d.PowerCycle(ctx); record(err) {
		snap.PowerCycles = &n
	}
	if n, ok, err := d.BadSectors(ctx); record(err) && ok {
		snap.BadSectors = &n
	}
	if attrs, err := d.Attributes(ctx); record(err) {
		snap.Attributes = sortedAttributes(attrs)
	}
	return snap
}

func sortedAttributes(attrs map[uint8]smart.Attribute) []smart.Attribute {
	out := make([]smart.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// smartctlScan adapts smartctl's device scan to a ScanFunc.
func smartctlScan(b *smartctl.Backend) ScanFunc {
	return func(ctx context.Context) ([]string, error) {
		devices, err := b.Scan(ctx)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(devices))
		for _, dev := range devices {
			paths = append(paths, dev.Name)
		}
		return paths, nil
	}
}

// StartMonitoring collects every Interval seconds until ctx is done. Values
// received on updates replace the event thresholds; updates may be nil.
func StartMonitoring(ctx context.Context, cfg DiskHealthConfig, updates <-chan Thresholds) {
	if !smartctl.Installed(cfg.SmartctlPath) {
		log.Fatal().Msg("smartctl is not installed. please install smartmontools package.")
	}

	backend := smartctl.New(
		smartctl.WithRunner(smartctl.ExecRunner{Path: cfg.SmartctlPath}),
		smartctl.WithDeviceType(cfg.DeviceType),
		smartctl.WithSkipStandby(cfg.SkipStandby),
	)
	monitor := NewMonitor(cfg, backend, smartctlScan(backend))
	defer monitor.Close()

	if err := monitor.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("error discovering devices")
	}
	if len(monitor.Devices()) == 0 {
		log.Fatal().Msg("No devices found for monitoring.")
	}
	log.Info().Strs("Devices", monitor.Devices()).Msg("Devices for monitoring")

	var nc *nats.Conn
	var err error
	if cfg.UseNats {
		nc, err = nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to nats")
		}
		defer nc.Close()
	}

	if cfg.Prometheus {
		srv := StartPrometheusServer(cfg.PrometheusPort)
		defer srv.Close()
	}

	rediscover := make(chan struct{}, 1)
	if cfg.WatchDir != "" {
		watcher, err := watchDevices(ctx, cfg.WatchDir, rediscover)
		if err != nil {
			log.Error().Err(err).Str("dir", cfg.WatchDir).Msg("error watching device directory, hotplug disabled")
		} else {
			defer watcher.Close()
		}
	}

	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("disk health monitoring stopped")
			return
		case t := <-updates:
			cfg.SetThresholds(t)
			log.Info().Interface("thresholds", t).Msg("event thresholds updated")
		case <-rediscover:
			if err := monitor.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("error rediscovering devices")
			}
		case <-ticker.C:
			snapshots := monitor.Collect(ctx)

			if cfg.Prometheus {
				PublishToPrometheus(snapshots)
			}

			if cfg.UseNats {
				if err := PublishToNATS(snapshots, nc, cfg.NatsSubject, &cfg); err != nil {
					log.Error().Err(err).Msg("error publishing snapshots to nats")
				}
			} else {
				snapshotsJSON, err := json.Marshal(snapshots)
				if err != nil {
					log.Error().Err(err).Msg("error marshalling snapshots to json")
					continue
				}
				fmt.Println(string(snapshotsJSON))
			}
		}
	}
}
