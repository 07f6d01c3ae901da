// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		unit  Unit
		want  string
	}{
		{"milliseconds", 999, UnitMilliseconds, "999 ms"},
		{"seconds", 1500, UnitMilliseconds, "1.5 s"},
		{"minutes", 90 * 1000, UnitMilliseconds, "1.5 min"},
		{"hours", 3 * 3600 * 1000, UnitMilliseconds, "3.0 h"},
		{"days", 36 * 3600 * 1000, UnitMilliseconds, "1.5 days"},
		{"months", 45 * 24 * 3600 * 1000, UnitMilliseconds, "1.5 months"},
		{"years", 2 * 365 * 24 * 3600 * 1000, UnitMilliseconds, "2.0 years"},
		{"temperature", 308150, UnitMilliKelvin, "35.0 C"},
		{"sectors", 8, UnitSectors, "8 sectors"},
		{"percent", 97, UnitPercent, "97%"},
		{"small percent", 3, UnitSmallPercent, "3.000%"},
		{"megabytes", 512, UnitMB, "512 MB"},
		{"gigabytes", 1500, UnitMB, "1.500 GB"},
		{"terabytes", 2500000, UnitMB, "2.500 TB"},
		{"plain", 42, UnitNone, "42"},
		{"unknown", 42, UnitUnknown, "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.unit))
		})
	}
}

func TestTemperatureConversion(t *testing.T) {
	assert.InDelta(t, 0.0, MilliKelvinToCelsius(273150), 0.0001)
	assert.InDelta(t, 41.5, MilliKelvinToCelsius(CelsiusToMilliKelvin(41.5)), 0.0001)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BAD_ATTRIBUTE_IN_THE_PAST", OverallBadAttributeInThePast.String())
	assert.Equal(t, "Overall(42)", Overall(42).String())
	assert.True(t, OverallGood.Good())
	assert.False(t, OverallBadStatus.Good())

	assert.Equal(t, "Unknown status", OfflineDataCollectionStatus(99).String())
	assert.Equal(t, "The self-test routine was aborted by the host.", SelfTestExecutionAborted.String())

	typ, err := ParseSelfTestType("long")
	assert.NoError(t, err)
	assert.Equal(t, SelfTestExtended, typ)
	_, err = ParseSelfTestType("offline")
	assert.Error(t, err)
}

func TestOverallMarshalsAsName(t *testing.T) {
	out, err := json.Marshal(map[string]Overall{"overall": OverallBadSector})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"overall":"BAD_SECTOR"}`, string(out))

	text, err := Overall(99).MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "Overall(99)", string(text))
}

func TestAttributeRawValue(t *testing.T) {
	a := Attribute{Raw: [6]byte{0x22, 0, 0, 0, 0x25, 0}}
	assert.Equal(t, uint64(158913789986), a.RawValue())
}
