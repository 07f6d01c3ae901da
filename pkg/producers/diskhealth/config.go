// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

type DiskHealthConfig struct {
	NatsURL        string
	NatsSubject    string
	UseNats        bool
	Prometheus     bool
	PrometheusPort int
	Disks          []string // "*" scans for devices
	Interval       int      // in seconds
	NodeName       string
	InstanceID     string

	SmartctlPath string
	DeviceType   string
	SkipStandby  bool
	WatchDir     string // empty disables hotplug rediscovery

	// NATS event thresholds
	PendingSectorsThreshold     int64
	ReallocatedSectorsThreshold int64
	TemperatureThreshold        int64 // celsius
}

// Wildcard reports whether the disk list asks for discovery.
func (c DiskHealthConfig) Wildcard() bool {
	return len(c.Disks) == 1 && c.Disks[0] == "*"
}

// Thresholds are the event limits that may change while the producer runs.
type Thresholds struct {
	PendingSectors     int64
	ReallocatedSectors int64
	Temperature        int64
}

func (c DiskHealthConfig) Thresholds() Thresholds {
	return Thresholds{
		PendingSectors:     c.PendingSectorsThreshold,
		ReallocatedSectors: c.ReallocatedSectorsThreshold,
		Temperature:        c.TemperatureThreshold,
	}
}

func (c *DiskHealthConfig) SetThresholds(t Thresholds) {
	c.PendingSectorsThreshold = t.PendingSectors
	c.ReallocatedSectorsThreshold = t.ReallocatedSectors
	c.TemperatureThreshold = t.Temperature
}
