// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import "fmt"

// Overall is the engine's one-word verdict on a disk.
type Overall int

const (
	OverallGood Overall = iota
	OverallBadAttributeInThePast
	OverallBadSector
	OverallBadAttributeNow
	OverallBadSectorMany
	OverallBadStatus
)

var overallNames = map[Overall]string{
	OverallGood:                  "GOOD",
	OverallBadAttributeInThePast: "BAD_ATTRIBUTE_IN_THE_PAST",
	OverallBadSector:             "BAD_SECTOR",
	OverallBadAttributeNow:       "BAD_ATTRIBUTE_NOW",
	OverallBadSectorMany:         "BAD_SECTOR_MANY",
	OverallBadStatus:             "BAD_STATUS",
}

func (o Overall) String() string {
	if s, ok := overallNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Overall(%d)", int(o))
}

func (o Overall) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Good reports whether nothing at all is wrong with the disk.
func (o Overall) Good() bool {
	return o == OverallGood
}

// SelfTestType selects which self-test routine SelfTest starts.
type SelfTestType int

const (
	SelfTestShort      SelfTestType = 1
	SelfTestExtended   SelfTestType = 2
	SelfTestConveyance SelfTestType = 3
	SelfTestAbort      SelfTestType = 127
)

func (t SelfTestType) String() string {
	switch t {
	case SelfTestShort:
		return "short"
	case SelfTestExtended:
		return "extended"
	case SelfTestConveyance:
		return "conveyance"
	case SelfTestAbort:
		return "abort"
	}
	return fmt.Sprintf("SelfTestType(%d)", int(t))
}

// ParseSelfTestType maps a CLI/config name onto a SelfTestType.
func ParseSelfTestType(s string) (SelfTestType, error) {
	switch s {
	case "short":
		return SelfTestShort, nil
	case "extended", "long":
		return SelfTestExtended, nil
	case "conveyance":
		return SelfTestConveyance, nil
	case "abort":
		return SelfTestAbort, nil
	}
	return 0, fmt.Errorf("unknown self-test type %q", s)
}

// Unit is the unit of an attribute's pretty value.
type Unit int

const (
	UnitUnknown Unit = iota
	UnitNone
	UnitMilliseconds
	UnitSectors
	UnitMilliKelvin
	UnitSmallPercent
	UnitPercent
	UnitMB
)

func (u Unit) String() string {
	switch u {
	case UnitNone:
		return "none"
	case UnitMilliseconds:
		return "ms"
	case UnitSectors:
		return "sectors"
	case UnitMilliKelvin:
		return "mK"
	case UnitSmallPercent:
		return "small_percent"
	case UnitPercent:
		return "percent"
	case UnitMB:
		return "MB"
	}
	return "unknown"
}

// OfflineDataCollectionStatus is the state of the last off-line data collection.
type OfflineDataCollectionStatus int

const (
	OfflineDataCollectionNever OfflineDataCollectionStatus = iota
	OfflineDataCollectionSuccess
	OfflineDataCollectionInProgress
	OfflineDataCollectionSuspended
	OfflineDataCollectionAborted
	OfflineDataCollectionFatal
	OfflineDataCollectionUnknown
)

var offlineStatusText = map[OfflineDataCollectionStatus]string{
	OfflineDataCollectionNever:      "Off-line data collection activity was never started.",
	OfflineDataCollectionSuccess:    "Off-line data collection activity was completed without error.",
	OfflineDataCollectionInProgress: "Off-line activity in progress.",
	OfflineDataCollectionSuspended:  "Off-line data collection activity was suspended by an interrupting command from host.",
	OfflineDataCollectionAborted:    "Off-line data collection activity was aborted by an interrupting command from host.",
	OfflineDataCollectionFatal:      "Off-line data collection activity was aborted by the device with a fatal error.",
	OfflineDataCollectionUnknown:    "Unknown status",
}

func (s OfflineDataCollectionStatus) String() string {
	if t, ok := offlineStatusText[s]; ok {
		return t
	}
	return offlineStatusText[OfflineDataCollectionUnknown]
}

// SelfTestExecutionStatus is the result of the last (or running) self-test.
type SelfTestExecutionStatus int

const (
	SelfTestExecutionSuccessOrNever  SelfTestExecutionStatus = 0
	SelfTestExecutionAborted         SelfTestExecutionStatus = 1
	SelfTestExecutionInterrupted     SelfTestExecutionStatus = 2
	SelfTestExecutionFatal           SelfTestExecutionStatus = 3
	SelfTestExecutionErrorUnknown    SelfTestExecutionStatus = 4
	SelfTestExecutionErrorElectrical SelfTestExecutionStatus = 5
	SelfTestExecutionErrorServo      SelfTestExecutionStatus = 6
	SelfTestExecutionErrorRead       SelfTestExecutionStatus = 7
	SelfTestExecutionErrorHandling   SelfTestExecutionStatus = 8
	SelfTestExecutionInProgress      SelfTestExecutionStatus = 15
)

var selfTestStatusText = map[SelfTestExecutionStatus]string{
	SelfTestExecutionSuccessOrNever:  "The previous self-test routine completed without error or no self-test has ever been run.",
	SelfTestExecutionAborted:         "The self-test routine was aborted by the host.",
	SelfTestExecutionInterrupted:     "The self-test routine was interrupted by the host with a hardware or software reset.",
	SelfTestExecutionFatal:           "A fatal error or unknown test error occurred while the device was executing its self-test routine and the device was unable to complete the self-test routine.",
	SelfTestExecutionErrorUnknown:    "The previous self-test completed having a test element that failed and the test element that failed.",
	SelfTestExecutionErrorElectrical: "The previous self-test completed having the electrical element of the test failed.",
	SelfTestExecutionErrorServo:      "The previous self-test completed having the servo (and/or seek) test element of the test failed.",
	SelfTestExecutionErrorRead:       "The previous self-test completed having the read element of the test failed.",
	SelfTestExecutionErrorHandling:   "The previous self-test completed having a test element that failed and the device is suspected of having handling damage.",
	SelfTestExecutionInProgress:      "Self-test routine in progress",
}

func (s SelfTestExecutionStatus) String() string {
	if t, ok := selfTestStatusText[s]; ok {
		return t
	}
	return fmt.Sprintf("Unknown self-test status %d", int(s))
}

// Identify is the parsed drive identify block.
type Identify struct {
	Model    string `json:"model"`
	Serial   string `json:"serial"`
	Firmware string `json:"firmware"`
}

// Info is the parsed SMART data page header: collection and self-test state.
type Info struct {
	OfflineDataCollectionStatus       OfflineDataCollectionStatus `json:"offline_data_collection_status"`
	TotalOfflineDataCollectionSeconds uint64                      `json:"total_offline_data_collection_seconds"`
	SelfTestExecutionStatus           SelfTestExecutionStatus     `json:"self_test_execution_status"`
	SelfTestExecutionPercentRemaining uint64                      `json:"self_test_execution_percent_remaining"`
	ConveyanceTestAvailable           bool                        `json:"conveyance_test_available"`
	ShortAndExtendedTestAvailable     bool                        `json:"short_and_extended_test_available"`
	StartTestAvailable                bool                        `json:"start_test_available"`
	AbortTestAvailable                bool                        `json:"abort_test_available"`
	ShortTestPollingMinutes           uint64                      `json:"short_test_polling_minutes"`
	ExtendedTestPollingMinutes        uint64                      `json:"extended_test_polling_minutes"`
	ConveyanceTestPollingMinutes      uint64                      `json:"conveyance_test_polling_minutes"`
}

// Text renders the info with statuses spelled out, keyed like the JSON form.
func (i Info) Text() map[string]string {
	return map[string]string{
		"offline_data_collection_status":        i.OfflineDataCollectionStatus.String(),
		"total_offline_data_collection_seconds": fmt.Sprintf("%d", i.TotalOfflineDataCollectionSeconds),
		"self_test_execution_status":            i.SelfTestExecutionStatus.String(),
		"self_test_execution_percent_remaining": fmt.Sprintf("%d", i.SelfTestExecutionPercentRemaining),
		"conveyance_test_available":             fmt.Sprintf("%t", i.ConveyanceTestAvailable),
		"short_and_extended_test_available":     fmt.Sprintf("%t", i.ShortAndExtendedTestAvailable),
		"start_test_available":                  fmt.Sprintf("%t", i.StartTestAvailable),
		"abort_test_available":                  fmt.Sprintf("%t", i.AbortTestAvailable),
		"short_test_polling_minutes":            fmt.Sprintf("%d", i.ShortTestPollingMinutes),
		"extended_test_polling_minutes":         fmt.Sprintf("%d", i.ExtendedTestPollingMinutes),
		"conveyance_test_polling_minutes":       fmt.Sprintf("%d", i.ConveyanceTestPollingMinutes),
	}
}

// Attribute is one parsed entry of the SMART attribute table.
// Value, Worst and Threshold are nil when the engine marked them invalid.
type Attribute struct {
	ID            uint8   `json:"id"`
	Name          string  `json:"name"`
	Value         *uint8  `json:"value"`
	Worst         *uint8  `json:"worst"`
	Threshold     *uint8  `json:"threshold"`
	Unit          Unit    `json:"unit"`
	PrettyValue   uint64  `json:"pretty_value"`
	HumanReadable string  `json:"human_readable"`
	Raw           [6]byte `json:"raw"`
	Updates       bool    `json:"updates"`
	Warn          bool    `json:"warn"`
	Flags         uint16  `json:"flags"`
	Type          string  `json:"type"`
	Failed        *bool   `json:"failed"`
	Good          *bool   `json:"good"`
	Past          *bool   `json:"past"`
}

// RawValue decodes the 48-bit little-endian raw counter.
func (a Attribute) RawValue() uint64 {
	var v uint64
	for i := len(a.Raw) - 1; i >= 0; i-- {
		v = v<<8 | uint64(a.Raw[i])
	}
	return v
}

// Prefailure reports whether the attribute is of the pre-failure kind.
func (a Attribute) Prefailure() bool {
	return a.Type == AttributeTypePrefail
}

const (
	AttributeTypePrefail = "prefail"
	AttributeTypeOldAge  = "old-age"
)
