// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

import (
	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

type rawConversion int

const (
	rawCount rawConversion = iota
	rawHours
	rawMinutes
	rawSeconds
	rawMilliseconds
	rawCelsius
	rawSectors
	rawPercent
	rawLBAs
	rawMiB
	raw32MiB
	rawGiB
)

// attributeKind describes how the raw counter of a named attribute turns into a pretty value.
type attributeKind struct {
	Key        string
	Conversion rawConversion
	// Warn marks counters where any non-zero raw value deserves attention
	Warn bool
}

// Keyed by the names smartctl's drive database assigns.
var attributeKinds = []attributeKind{
	{Key: "Spin_Up_Time", Conversion: rawMilliseconds},
	{Key: "Start_Stop_Count", Conversion: rawCount},
	{Key: "Reallocated_Sector_Ct", Conversion: rawSectors, Warn: true},
	{Key: "Power_On_Hours", Conversion: rawHours},
	{Key: "Power_On_Hours_and_Msec", Conversion: rawHours},
	{Key: "Power_On_Minutes", Conversion: rawMinutes},
	{Key: "Power_On_Seconds", Conversion: rawSeconds},
	{Key: "Power_On_Half_Minutes", Conversion: rawSeconds},
	{Key: "Spin_Retry_Count", Conversion: rawCount},
	{Key: "Calibration_Retry_Count", Conversion: rawCount},
	{Key: "Power_Cycle_Count", Conversion: rawCount},
	{Key: "Runtime_Bad_Block", Conversion: rawSectors},
	{Key: "End-to-End_Error", Conversion: rawCount},
	{Key: "Reported_Uncorrect", Conversion: rawSectors},
	{Key: "Command_Timeout", Conversion: rawCount},
	{Key: "Airflow_Temperature_Cel", Conversion: rawCelsius},
	{Key: "Power-Off_Retract_Count", Conversion: rawCount},
	{Key: "Load_Cycle_Count", Conversion: rawCount},
	{Key: "Temperature_Celsius", Conversion: rawCelsius},
	{Key: "Temperature_Internal", Conversion: rawCelsius},
	{Key: "Reallocated_Event_Count", Conversion: rawCount, Warn: true},
	{Key: "Current_Pending_Sector", Conversion: rawSectors, Warn: true},
	{Key: "Offline_Uncorrectable", Conversion: rawSectors, Warn: true},
	{Key: "UDMA_CRC_Error_Count", Conversion: rawCount},
	{Key: "Head_Flying_Hours", Conversion: rawHours},
	{Key: "Wear_Leveling_Count", Conversion: rawCount},
	{Key: "Percent_Lifetime_Remain", Conversion: rawPercent},
	{Key: "Media_Wearout_Indicator", Conversion: rawPercent},
	{Key: "SSD_Life_Left", Conversion: rawPercent},
	{Key: "Available_Reservd_Space", Conversion: rawPercent},
	{Key: "Total_LBAs_Written", Conversion: rawLBAs},
	{Key: "Total_LBAs_Read", Conversion: rawLBAs},
	{Key: "Host_Writes_MiB", Conversion: rawMiB},
	{Key: "Host_Reads_MiB", Conversion: rawMiB},
	{Key: "Host_Writes_32MiB", Conversion: raw32MiB},
	{Key: "Host_Reads_32MiB", Conversion: raw32MiB},
	{Key: "Lifetime_Writes_GiB", Conversion: rawGiB},
	{Key: "Lifetime_Reads_GiB", Conversion: rawGiB},
	{Key: "Total_Writes_GiB", Conversion: rawGiB},
	{Key: "Total_Reads_GiB", Conversion: rawGiB},
}

var attributeKindByKey = func() map[string]attributeKind {
	m := make(map[string]attributeKind, len(attributeKinds))
	for _, k := range attributeKinds {
		m[k.Key] = k
	}
	return m
}()

// prettyValue converts a raw counter into the value and unit used for display.
func prettyValue(name string, raw uint64) (uint64, smart.Unit, bool) {
	kind, ok := attributeKindByKey[name]
	if !ok {
		return raw, smart.UnitNone, false
	}
	switch kind.Conversion {
	case rawHours:
		return (raw & 0xFFFFFFFF) * 3600 * 1000, smart.UnitMilliseconds, kind.Warn
	case rawMinutes:
		return (raw & 0xFFFFFFFF) * 60 * 1000, smart.UnitMilliseconds, kind.Warn
	case rawSeconds:
		return (raw & 0xFFFFFFFF) * 1000, smart.UnitMilliseconds, kind.Warn
	case rawMilliseconds:
		return raw & 0xFFFF, smart.UnitMilliseconds, kind.Warn
	case rawCelsius:
		return smart.CelsiusToMilliKelvin(float64(raw & 0xFFFF)), smart.UnitMilliKelvin, kind.Warn
	case rawSectors:
		return raw & 0xFFFFFFFF, smart.UnitSectors, kind.Warn
	case rawPercent:
		return raw & 0xFF, smart.UnitPercent, kind.Warn
	case rawLBAs:
		return raw * 512 / 1000000, smart.UnitMB, kind.Warn
	case rawMiB:
		return raw * 1048576 / 1000000, smart.UnitMB, kind.Warn
	case raw32MiB:
		return raw * 32 * 1048576 / 1000000, smart.UnitMB, kind.Warn
	case rawGiB:
		return raw * 1073741824 / 1000000, smart.UnitMB, kind.Warn
	}
	return raw, smart.UnitNone, kind.Warn
}

// validNormalized reports whether a normalized value byte carries data.
// 0, 0xFE and 0xFF are reserved.
func validNormalized(v int64) bool {
	return v >= 1 && v <= 0xFD
}

func optionalByte(v int64, ok bool) *uint8 {
	if !ok {
		return nil
	}
	b := uint8(v)
	return &b
}

func optionalBool(v bool, ok bool) *bool {
	if !ok {
		return nil
	}
	return &v
}

// convertAttribute maps one row of smartctl's attribute table onto smart.Attribute.
func convertAttribute(e SmartCtlATASMARTEntry) smart.Attribute {
	raw := uint64(e.Raw.Value)
	valueOK := validNormalized(e.Value)
	worstOK := validNormalized(e.Worst)
	threshOK := e.Thresh >= 0 && e.Thresh <= 0xFD

	a := smart.Attribute{
		ID:        uint8(e.ID),
		Name:      e.Name,
		Value:     optionalByte(e.Value, valueOK),
		Worst:     optionalByte(e.Worst, worstOK),
		Threshold: optionalByte(e.Thresh, threshOK),
		Updates:   e.Flags.UpdatedOnline,
		Flags:     uint16(e.Flags.Value),
		Type:      smart.AttributeTypeOldAge,
	}
	if e.Flags.Prefailure {
		a.Type = smart.AttributeTypePrefail
	}
	for i := range a.Raw {
		a.Raw[i] = byte(raw >> (8 * i))
	}

	a.Failed = optionalBool(e.Value <= e.Thresh, valueOK && threshOK && e.Value != 0 && e.Thresh != 0)
	a.Good = optionalBool(e.WhenFailed != "now", valueOK && threshOK)
	a.Past = optionalBool(e.WhenFailed == "", worstOK && threshOK)

	var warnOnRaw bool
	a.PrettyValue, a.Unit, warnOnRaw = prettyValue(e.Name, raw)
	a.HumanReadable = smart.FormatValue(a.PrettyValue, a.Unit)

	a.Warn = (a.Good != nil && !*a.Good) || (a.Past != nil && !*a.Past) || (warnOnRaw && a.PrettyValue > 0)
	return a
}

func convertAttributes(attrs *SmartCtlATASMARTAttributes) map[uint8]smart.Attribute {
	out := make(map[uint8]smart.Attribute)
	if attrs == nil {
		return out
	}
	for _, e := range attrs.Table {
		if e.ID <= 0 || e.ID > 0xFF {
			continue
		}
		out[uint8(e.ID)] = convertAttribute(e)
	}
	return out
}
