// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"time"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

// Snapshot is everything one collection pass learned about a disk.
type Snapshot struct {
	NodeName           string            `json:"node_name"`
	InstanceID         string            `json:"instance_id"`
	Device             string            `json:"device"`
	CollectedAt        time.Time         `json:"collected_at"`
	Asleep             bool              `json:"asleep,omitempty"`
	Identify           *smart.Identify   `json:"identify,omitempty"`
	SizeBytes          uint64            `json:"size_bytes,omitempty"`
	StatusPassed       *bool             `json:"status_passed,omitempty"`
	Overall            *smart.Overall    `json:"overall,omitempty"`
	TemperatureCelsius *float64          `json:"temperature_celsius,omitempty"`
	PowerOnHours       *float64          `json:"power_on_hours,omitempty"`
	PowerCycles        *uint64           `json:"power_cycles,omitempty"`
	BadSectors         *uint64           `json:"bad_sectors,omitempty"`
	Attributes         []smart.Attribute `json:"attributes,omitempty"`
	Errors             []string          `json:"errors,omitempty"`
}

// Attribute returns the attribute with the given id, if the disk reported it.
func (s Snapshot) Attribute(id uint8) (smart.Attribute, bool) {
	for _, a := range s.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return smart.Attribute{}, false
}

// HealthEvent is published to NATS once per snapshot.
type HealthEvent struct {
	ID         string            `json:"id"`
	NodeName   string            `json:"node_name"`
	InstanceID string            `json:"instance_id"`
	Device     string            `json:"device"`
	EventType  string            `json:"event_type"`
	Severity   string            `json:"severity"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details"`
	Timestamp  time.Time         `json:"timestamp"`
}
