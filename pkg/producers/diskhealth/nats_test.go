// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

func overallPtr(o smart.Overall) *smart.Overall { return &o }
func floatPtr(f float64) *float64             { return &f }

func sectorAttr(id uint8, name string, n uint64) smart.Attribute {
	return smart.Attribute{ID: id, Name: name, Unit: smart.UnitSectors, PrettyValue: n, HumanReadable: smart.FormatValue(n, smart.UnitSectors), Warn: n > 0}
}

func TestConvertToHealthEvent(t *testing.T) {
	cfg := testConfig("/dev/sda")
	tests := []struct {
		name      string
		snapshot  Snapshot
		severity  string
		eventType string
		message   string
	}{
		{
			name:      "healthy",
			snapshot:  Snapshot{Overall: overallPtr(smart.OverallGood), TemperatureCelsius: floatPtr(34)},
			severity:  "info",
			eventType: "health",
			message:   "SMART data collected successfully.",
		},
		{
			name:      "failed self-assessment",
			snapshot:  Snapshot{Overall: overallPtr(smart.OverallBadStatus)},
			severity:  "critical",
			eventType: "health_alert",
			message:   "SMART self-assessment failed, disk failure predicted.",
		},
		{
			name:      "attribute failed in the past",
			snapshot:  Snapshot{Overall: overallPtr(smart.OverallBadAttributeInThePast)},
			severity:  "warning",
			eventType: "health_alert",
			message:   "SMART data indicates potential drive issues (BAD_ATTRIBUTE_IN_THE_PAST).",
		},
		{
			name: "pending sectors above threshold",
			snapshot: Snapshot{
				Overall:    overallPtr(smart.OverallBadSector),
				Attributes: []smart.Attribute{sectorAttr(197, "Current_Pending_Sector", 16)},
			},
			severity:  "warning",
			eventType: "health_alert",
			message:   "SMART data indicates potential drive issues (pending sectors).",
		},
		{
			name: "reallocated sectors below threshold",
			snapshot: Snapshot{
				Overall:    overallPtr(smart.OverallBadSector),
				Attributes: []smart.Attribute{sectorAttr(5, "Reallocated_Sector_Ct", 8)},
			},
			severity:  "warning",
			eventType: "health_alert",
			message:   "SMART data indicates potential drive issues (BAD_SECTOR).",
		},
		{
			name:      "hot disk",
			snapshot:  Snapshot{Overall: overallPtr(smart.OverallGood), TemperatureCelsius: floatPtr(61)},
			severity:  "warning",
			eventType: "temperature_alert",
			message:   "SMART data collected successfully.",
		},
		{
			name: "many bad sectors stays critical",
			snapshot: Snapshot{
				Overall:    overallPtr(smart.OverallBadSectorMany),
				Attributes: []smart.Attribute{sectorAttr(5, "Reallocated_Sector_Ct", 40000)},
			},
			severity:  "critical",
			eventType: "health_alert",
			message:   "SMART data indicates potential drive issues (reallocated sectors).",
		},
		{
			name:      "asleep",
			snapshot:  Snapshot{Asleep: true},
			severity:  "info",
			eventType: "health",
			message:   "Disk is in standby, SMART data not collected.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := convertToHealthEvent(tt.snapshot, &cfg)
			assert.Equal(t, tt.severity, event.Severity)
			assert.Equal(t, tt.eventType, event.EventType)
			assert.Equal(t, tt.message, event.Message)
		})
	}
}

func TestHealthEventDetails(t *testing.T) {
	cfg := testConfig("/dev/sda")
	passed := true
	s := Snapshot{
		Device:       "/dev/sda",
		NodeName:     "node-a",
		Identify:     &smart.Identify{Model: "ST2000DM008-2FR102", Serial: "ZFL0ABCD"},
		StatusPassed: &passed,
		Overall:      overallPtr(smart.OverallBadSector),
		Attributes: []smart.Attribute{
			sectorAttr(197, "Current_Pending_Sector", 16),
			sectorAttr(198, "Offline_Uncorrectable", 0),
		},
	}

	event := convertToHealthEvent(s, &cfg)

	assert.Equal(t, "ZFL0ABCD", event.Details["Serial"])
	assert.Equal(t, "true", event.Details["StatusPassed"])
	assert.Equal(t, "BAD_SECTOR", event.Details["Overall"])
	assert.Equal(t, "16 sectors", event.Details["Current_Pending_Sector"])
	assert.Equal(t, "16 (Warning: Exceeds threshold of 3)", event.Details["PendingSectors"])
	assert.NotContains(t, event.Details, "Offline_Uncorrectable")
}

func TestPublishToNATS(t *testing.T) {
	cfg := testConfig("/dev/sda")
	pub := &recordingPublisher{}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{Device: "/dev/sda", NodeName: "node-a", Overall: overallPtr(smart.OverallGood), CollectedAt: now},
		{Device: "/dev/sdb", NodeName: "node-a", Overall: overallPtr(smart.OverallBadStatus), CollectedAt: now},
	}

	require.NoError(t, PublishToNATS(snapshots, pub, "disk.health", &cfg))
	require.Len(t, pub.payloads, 2)
	assert.Equal(t, []string{"disk.health", "disk.health"}, pub.subjects)

	var event HealthEvent
	require.NoError(t, json.Unmarshal(pub.payloads[1], &event))
	assert.Equal(t, "/dev/sdb", event.Device)
	assert.Equal(t, "critical", event.Severity)
	assert.True(t, event.Timestamp.Equal(now))
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)

	var first HealthEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &first))
	assert.NotEqual(t, first.ID, event.ID)
}

func TestPublishToNATSError(t *testing.T) {
	cfg := testConfig("/dev/sda")
	pub := &recordingPublisher{err: errors.New("nats: connection closed")}
	err := PublishToNATS([]Snapshot{{Device: "/dev/sda"}}, pub, "disk.health", &cfg)
	assert.EqualError(t, err, "nats: connection closed")
}
