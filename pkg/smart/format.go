// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import "fmt"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerMonth  = 30 * msPerDay
	msPerYear   = 365 * msPerDay

	// absolute zero in millikelvin
	zeroCelsiusMK = 273150
)

// FormatValue renders a pretty value in its unit the way smartctl-style tools print it.
func FormatValue(v uint64, unit Unit) string {
	switch unit {
	case UnitMilliseconds:
		return formatMilliseconds(v)
	case UnitMilliKelvin:
		return fmt.Sprintf("%0.1f C", MilliKelvinToCelsius(v))
	case UnitSectors:
		return fmt.Sprintf("%d sectors", v)
	case UnitPercent:
		return fmt.Sprintf("%d%%", v)
	case UnitSmallPercent:
		return fmt.Sprintf("%0.3f%%", float64(v))
	case UnitMB:
		switch {
		case v >= 1000000:
			return fmt.Sprintf("%0.3f TB", float64(v)/1000000)
		case v >= 1000:
			return fmt.Sprintf("%0.3f GB", float64(v)/1000)
		}
		return fmt.Sprintf("%d MB", v)
	case UnitNone:
		return fmt.Sprintf("%d", v)
	}
	return "n/a"
}

func formatMilliseconds(v uint64) string {
	f := float64(v)
	switch {
	case v >= msPerYear:
		return fmt.Sprintf("%0.1f years", f/msPerYear)
	case v >= msPerMonth:
		return fmt.Sprintf("%0.1f months", f/msPerMonth)
	case v >= msPerDay:
		return fmt.Sprintf("%0.1f days", f/msPerDay)
	case v >= msPerHour:
		return fmt.Sprintf("%0.1f h", f/msPerHour)
	case v >= msPerMinute:
		return fmt.Sprintf("%0.1f min", f/msPerMinute)
	case v >= msPerSecond:
		return fmt.Sprintf("%0.1f s", f/msPerSecond)
	}
	return fmt.Sprintf("%d ms", v)
}

// MilliKelvinToCelsius converts the engine's temperature unit to degrees Celsius.
func MilliKelvinToCelsius(mk uint64) float64 {
	return (float64(mk) - zeroCelsiusMK) / 1000
}

// CelsiusToMilliKelvin is the inverse of MilliKelvinToCelsius.
func CelsiusToMilliKelvin(c float64) uint64 {
	return uint64(c*1000 + zeroCelsiusMK)
}
