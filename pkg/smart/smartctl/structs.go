// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

// SmartCtlScanOutput represents the root structure of the JSON output from smartctl --scan-open -j
type SmartCtlScanOutput struct {
	JSONFormatVersion []int64          `json:"json_format_version"`
	Smartctl          SmartCtlDetails  `json:"smartctl"`
	Devices           []SmartCtlDevice `json:"devices"`
}

// SmartCtlOutput represents the parts of smartctl's JSON output the engine adapter reads
type SmartCtlOutput struct {
	JSONFormatVersion      []int64                         `json:"json_format_version"`
	Smartctl               SmartCtlDetails                 `json:"smartctl"`
	Device                 SmartCtlDevice                  `json:"device"`
	ModelName              string                          `json:"model_name"`
	SerialNumber           string                          `json:"serial_number"`
	FirmwareVersion        string                          `json:"firmware_version"`
	UserCapacity           *SmartCtlUserCapacity           `json:"user_capacity,omitempty"`
	NVMeTotalCapacity      int64                           `json:"nvme_total_capacity,omitempty"`
	SmartSupport           *SmartCtlSmartSupport           `json:"smart_support,omitempty"`
	SmartStatus            *SmartCtlSmartStatus            `json:"smart_status,omitempty"`
	ATASmartData           *SmartCtlATASmartData           `json:"ata_smart_data,omitempty"`
	ATASMARTAttributes     *SmartCtlATASMARTAttributes     `json:"ata_smart_attributes,omitempty"`
	PowerOnTime            *SmartCtlPowerOnTime            `json:"power_on_time,omitempty"`
	PowerCycleCount        *int64                          `json:"power_cycle_count,omitempty"`
	Temperature            *SmartCtlTemperature            `json:"temperature,omitempty"`
	SCSIGrownDefectList    *int64                          `json:"scsi_grown_defect_list,omitempty"`
	NVMeSmartHealthInfoLog *SmartCtlNVMeSmartHealthInfoLog `json:"nvme_smart_health_information_log,omitempty"`
}

// SmartCtlDetails represents the details about the smartctl command used
type SmartCtlDetails struct {
	Version    []int64           `json:"version"`
	Argv       []string          `json:"argv"`
	ExitStatus int64             `json:"exit_status"`
	Messages   []SmartCtlMessage `json:"messages,omitempty"`
}

// SmartCtlMessage is one diagnostic line smartctl attached to its output
type SmartCtlMessage struct {
	String   string `json:"string"`
	Severity string `json:"severity"`
}

// SmartCtlDevice represents the device details
type SmartCtlDevice struct {
	InfoName string `json:"info_name"`
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Type     string `json:"type"`
}

// SmartCtlUserCapacity represents the user capacity of the device
type SmartCtlUserCapacity struct {
	Blocks int64 `json:"blocks"`
	Bytes  int64 `json:"bytes"`
}

// SmartCtlSmartSupport indicates whether SMART is supported and enabled
type SmartCtlSmartSupport struct {
	Available bool `json:"available"`
	Enabled   bool `json:"enabled"`
}

// SmartCtlSmartStatus represents the SMART health status
type SmartCtlSmartStatus struct {
	Passed bool `json:"passed"`
}

// SmartCtlATASmartData represents the ATA SMART data page header
type SmartCtlATASmartData struct {
	OfflineDataCollection SmartCtlOfflineDataCollection `json:"offline_data_collection"`
	SelfTest              SmartCtlSelfTest              `json:"self_test"`
	Capabilities          SmartCtlATACapabilities       `json:"capabilities"`
}

// SmartCtlOfflineDataCollection represents the off-line data collection state
type SmartCtlOfflineDataCollection struct {
	Status            SmartCtlStatusValue `json:"status"`
	CompletionSeconds int64               `json:"completion_seconds"`
}

// SmartCtlSelfTest represents the self-test execution state and polling times
type SmartCtlSelfTest struct {
	Status         SmartCtlStatusValue    `json:"status"`
	PollingMinutes SmartCtlPollingMinutes `json:"polling_minutes"`
}

// SmartCtlStatusValue is a raw status byte with smartctl's rendering of it
type SmartCtlStatusValue struct {
	Value            int64  `json:"value"`
	String           string `json:"string"`
	RemainingPercent *int64 `json:"remaining_percent,omitempty"`
}

// SmartCtlPollingMinutes represents the recommended self-test polling times
type SmartCtlPollingMinutes struct {
	Short      int64 `json:"short"`
	Extended   int64 `json:"extended"`
	Conveyance int64 `json:"conveyance"`
}

// SmartCtlATACapabilities represents the offline/self-test capability bits
type SmartCtlATACapabilities struct {
	Values                        []int64 `json:"values"`
	ExecOfflineImmediateSupported bool    `json:"exec_offline_immediate_supported"`
	OfflineSurfaceScanSupported   bool    `json:"offline_surface_scan_supported"`
	SelfTestsSupported            bool    `json:"self_tests_supported"`
	ConveyanceSelfTestSupported   bool    `json:"conveyance_self_test_supported"`
	SelectiveSelfTestSupported    bool    `json:"selective_self_test_supported"`
}

// SmartCtlATASMARTAttributes represents the ATA SMART attributes
type SmartCtlATASMARTAttributes struct {
	Revision int64                   `json:"revision"`
	Table    []SmartCtlATASMARTEntry `json:"table"`
}

// SmartCtlATASMARTEntry represents a single ATA SMART attribute entry
type SmartCtlATASMARTEntry struct {
	ID         int64                 `json:"id"`
	Name       string                `json:"name"`
	Value      int64                 `json:"value"`
	Worst      int64                 `json:"worst"`
	Thresh     int64                 `json:"thresh"`
	WhenFailed string                `json:"when_failed,omitempty"`
	Flags      SmartCtlATASMARTFlags `json:"flags"`
	Raw        SmartCtlATASMARTRaw   `json:"raw"`
}

// SmartCtlATASMARTFlags represents the flags for a single ATA SMART attribute entry
type SmartCtlATASMARTFlags struct {
	Value         int64  `json:"value"`
	String        string `json:"string"`
	Prefailure    bool   `json:"prefailure"`
	UpdatedOnline bool   `json:"updated_online"`
	Performance   bool   `json:"performance"`
	ErrorRate     bool   `json:"error_rate"`
	EventCount    bool   `json:"event_count"`
	AutoKeep      bool   `json:"auto_keep"`
}

// SmartCtlATASMARTRaw represents the raw value for a single ATA SMART attribute entry
type SmartCtlATASMARTRaw struct {
	Value  int64  `json:"value"`
	String string `json:"string"`
}

// SmartCtlPowerOnTime represents the power-on time of the device
type SmartCtlPowerOnTime struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes,omitempty"`
}

// SmartCtlTemperature represents the temperature readings of the device
type SmartCtlTemperature struct {
	Current   int64 `json:"current"`
	DriveTrip int64 `json:"drive_trip,omitempty"`
}

// SmartCtlNVMeSmartHealthInfoLog represents the NVMe SMART health information log
type SmartCtlNVMeSmartHealthInfoLog struct {
	CriticalWarning int64 `json:"critical_warning"`
	Temperature     int64 `json:"temperature"`
	AvailableSpare  int64 `json:"available_spare"`
	PercentageUsed  int64 `json:"percentage_used"`
	PowerCycles     int64 `json:"power_cycles"`
	PowerOnHours    int64 `json:"power_on_hours"`
	UnsafeShutdowns int64 `json:"unsafe_shutdowns"`
	MediaErrors     int64 `json:"media_errors"`
}
