// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

const (
	attrReallocatedSectors = 5
	attrPendingSectors     = 197

	severityInfo     = "info"
	severityWarning  = "warning"
	severityCritical = "critical"
)

// Publisher is the part of *nats.Conn the producer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// convertToHealthEvent converts a Snapshot to a HealthEvent
func convertToHealthEvent(s Snapshot, cfg *DiskHealthConfig) HealthEvent {
	details := make(map[string]string)
	severity := severityInfo
	eventType := "health"

	if s.Identify != nil {
		details["Model"] = s.Identify.Model
		details["Serial"] = s.Identify.Serial
	}
	if s.StatusPassed != nil {
		details["StatusPassed"] = fmt.Sprintf("%t", *s.StatusPassed)
	}
	if s.Overall != nil {
		details["Overall"] = s.Overall.String()
	}
	if s.TemperatureCelsius != nil {
		details["TemperatureCelsius"] = fmt.Sprintf("%.0f", *s.TemperatureCelsius)
	}
	if s.PowerOnHours != nil {
		details["PowerOnHours"] = fmt.Sprintf("%.0f", *s.PowerOnHours)
	}
	if s.PowerCycles != nil {
		details["PowerCycles"] = fmt.Sprintf("%d", *s.PowerCycles)
	}
	if s.BadSectors != nil {
		details["BadSectors"] = fmt.Sprintf("%d", *s.BadSectors)
	}
	for _, a := range s.Attributes {
		if a.Warn {
			details[a.Name] = a.HumanReadable
		}
	}

	checkAndSetThresholds(details, s, cfg, &severity, &eventType)

	return HealthEvent{
		ID:         uuid.NewString(),
		NodeName:   s.NodeName,
		InstanceID: s.InstanceID,
		Device:     s.Device,
		EventType:  eventType,
		Severity:   severity,
		Message:    generateMessage(s, details),
		Details:    details,
		Timestamp:  s.CollectedAt,
	}
}

func raise(severity *string, to string) {
	rank := map[string]int{severityInfo: 0, severityWarning: 1, severityCritical: 2}
	if rank[to] > rank[*severity] {
		*severity = to
	}
}

// checkAndSetThresholds grades the snapshot and marks the values that crossed a threshold.
func checkAndSetThresholds(details map[string]string, s Snapshot, cfg *DiskHealthConfig, severity *string, eventType *string) {
	if s.Overall != nil {
		switch *s.Overall {
		case smart.OverallBadStatus, smart.OverallBadSectorMany, smart.OverallBadAttributeNow:
			raise(severity, severityCritical)
			*eventType = "health_alert"
		case smart.OverallBadSector, smart.OverallBadAttributeInThePast:
			raise(severity, severityWarning)
			*eventType = "health_alert"
		}
	}

	if a, ok := s.Attribute(attrPendingSectors); ok && int64(a.PrettyValue) > cfg.PendingSectorsThreshold {
		details["PendingSectors"] = fmt.Sprintf("%d (Warning: Exceeds threshold of %d)", a.PrettyValue, cfg.PendingSectorsThreshold)
		raise(severity, severityWarning)
		*eventType = "health_alert"
	}

	if a, ok := s.Attribute(attrReallocatedSectors); ok && int64(a.PrettyValue) > cfg.ReallocatedSectorsThreshold {
		details["ReallocatedSectors"] = fmt.Sprintf("%d (Warning: Exceeds threshold of %d)", a.PrettyValue, cfg.ReallocatedSectorsThreshold)
		raise(severity, severityWarning)
		*eventType = "health_alert"
	}

	if cfg.TemperatureThreshold > 0 && s.TemperatureCelsius != nil && *s.TemperatureCelsius > float64(cfg.TemperatureThreshold) {
		details["TemperatureCelsius"] = fmt.Sprintf("%.0f (Warning: Exceeds threshold of %d)", *s.TemperatureCelsius, cfg.TemperatureThreshold)
		raise(severity, severityWarning)
		*eventType = "temperature_alert"
	}
}

// generateMessage generates a summary message based on the details.
func generateMessage(s Snapshot, details map[string]string) string {
	if s.Asleep {
		return "Disk is in standby, SMART data not collected."
	}
	if s.Overall != nil && *s.Overall == smart.OverallBadStatus {
		return "SMART self-assessment failed, disk failure predicted."
	}
	if _, found := details["PendingSectors"]; found {
		return "SMART data indicates potential drive issues (pending sectors)."
	}
	if _, found := details["ReallocatedSectors"]; found {
		return "SMART data indicates potential drive issues (reallocated sectors)."
	}
	if _, found := details["Overall"]; found && !s.Overall.Good() {
		return fmt.Sprintf("SMART data indicates potential drive issues (%s).", *s.Overall)
	}
	if len(s.Errors) > 0 {
		return "SMART data collected with errors."
	}
	return "SMART data collected successfully."
}

func PublishToNATS(snapshots []Snapshot, pub Publisher, subject string, cfg *DiskHealthConfig) error {
	for _, s := range snapshots {
		event := convertToHealthEvent(s, cfg)

		eventJSON, err := json.Marshal(event)
		if err != nil {
			return err
		}

		if err := pub.Publish(subject, eventJSON); err != nil {
			return err
		}
	}

	return nil
}
