// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package smartctl implements smart.Backend on top of smartmontools' smartctl in JSON mode.
package smartctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// smartctl exit status bits, see smartctl(8) RETURN VALUES.
const (
	exitCommandLine  = 1 << 0
	exitDeviceOpen   = 1 << 1
	exitSmartCommand = 1 << 2

	// returned by --nocheck=standby,N when the device is in a low-power mode
	sleepExitCode = 42
)

// Backend runs smartctl for every engine call.
type Backend struct {
	runner      Runner
	deviceType  string
	skipStandby bool
}

type Option func(*Backend)

// WithRunner replaces the smartctl process runner.
func WithRunner(r Runner) Option {
	return func(b *Backend) { b.runner = r }
}

// WithDeviceType passes -d <type> to smartctl, e.g. "sat" or "nvme".
func WithDeviceType(t string) Option {
	return func(b *Backend) { b.deviceType = t }
}

// WithSkipStandby makes data reads leave sleeping disks alone instead of spinning them up.
func WithSkipStandby(skip bool) Option {
	return func(b *Backend) { b.skipStandby = skip }
}

func New(opts ...Option) *Backend {
	b := &Backend{runner: ExecRunner{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDisk is shorthand for smart.NewDisk backed by smartctl.
func NewDisk(path string, opts ...Option) *smart.Disk {
	return smart.NewDisk(path, New(opts...))
}

func (b *Backend) args(path string, extra ...string) []string {
	args := []string{"--json"}
	if b.deviceType != "" {
		args = append(args, "-d", b.deviceType)
	}
	args = append(args, extra...)
	return append(args, path)
}

// run executes smartctl and fails when any of the fatal exit bits are set.
func (b *Backend) run(ctx context.Context, fatal int, args ...string) ([]byte, int, error) {
	out, code, err := b.runner.Run(ctx, args...)
	if err != nil {
		return nil, code, err
	}
	if code&fatal != 0 {
		return out, code, commandError(out, code)
	}
	return out, code, nil
}

// commandError builds an error from the messages smartctl printed.
func commandError(out []byte, code int) error {
	var msgs []string
	for _, m := range gjson.GetBytes(out, "smartctl.messages.#.string").Array() {
		if s := strings.TrimSpace(m.String()); s != "" {
			msgs = append(msgs, s)
		}
	}
	if len(msgs) == 0 {
		return fmt.Errorf("smartctl exited with status %d", code)
	}
	return fmt.Errorf("smartctl exited with status %d: %s", code, strings.Join(msgs, "; "))
}

func (b *Backend) Open(ctx context.Context, path string) (smart.Handle, error) {
	out, _, err := b.run(ctx, exitCommandLine|exitDeviceOpen, b.args(path, "--info")...)
	if err != nil {
		return nil, err
	}
	var info SmartCtlOutput
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("error parsing smartctl output: %w", err)
	}
	return &device{backend: b, path: path, info: &info}, nil
}

// device is an open smartctl handle. The --info output is taken at open,
// the --all output on first need.
type device struct {
	backend *Backend
	path    string
	info    *SmartCtlOutput
	data    *SmartCtlOutput
	closed  bool
}

func (d *device) ReadData(ctx context.Context) error {
	if d.closed {
		return smart.ErrClosed
	}
	extra := []string{"--all", "--tolerance=verypermissive"}
	if d.backend.skipStandby {
		extra = append(extra, "--nocheck=standby")
	}
	out, code, err := d.backend.run(ctx, exitCommandLine|exitDeviceOpen, d.backend.args(d.path, extra...)...)
	if err != nil {
		return err
	}
	var data SmartCtlOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return fmt.Errorf("error parsing smartctl output: %w", err)
	}
	if code&exitSmartCommand != 0 {
		log.Debug().Str("device", d.path).Int("exit_status", code).Msg("some SMART commands failed, data may be incomplete")
	}
	d.data = &data
	return nil
}

func (d *device) smartData(ctx context.Context) (*SmartCtlOutput, error) {
	if d.closed {
		return nil, smart.ErrClosed
	}
	if d.data == nil {
		if err := d.ReadData(ctx); err != nil {
			return nil, err
		}
	}
	return d.data, nil
}

func (d *device) IdentifyIsAvailable(ctx context.Context) (bool, error) {
	if d.closed {
		return false, smart.ErrClosed
	}
	return d.info.ModelName != "" || d.info.SerialNumber != "", nil
}

func (d *device) SmartIsAvailable(ctx context.Context) (bool, error) {
	if d.closed {
		return false, smart.ErrClosed
	}
	if d.info.SmartSupport != nil {
		return d.info.SmartSupport.Available, nil
	}
	// NVMe devices always carry the health log
	return d.info.Device.Protocol == "NVMe", nil
}

func (d *device) SmartStatus(ctx context.Context) (bool, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return false, err
	}
	if data.SmartStatus == nil {
		return false, smart.ErrNotAvailable
	}
	return data.SmartStatus.Passed, nil
}

func (d *device) CheckSleepMode(ctx context.Context) (bool, error) {
	if d.closed {
		return false, smart.ErrClosed
	}
	nocheck := fmt.Sprintf("--nocheck=standby,%d", sleepExitCode)
	out, code, err := d.backend.runner.Run(ctx, d.backend.args(d.path, nocheck, "--info")...)
	if err != nil {
		return false, err
	}
	// the sleep code overlaps the fatal bits
	if code == sleepExitCode {
		return false, nil
	}
	if code&(exitCommandLine|exitDeviceOpen) != 0 {
		return false, commandError(out, code)
	}
	return true, nil
}

func (d *device) Attributes(ctx context.Context) (map[uint8]smart.Attribute, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return nil, err
	}
	return convertAttributes(data.ATASMARTAttributes), nil
}

func (d *device) Info(ctx context.Context) (smart.Info, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return smart.Info{}, err
	}
	if data.ATASmartData == nil {
		return smart.Info{}, smart.ErrNotAvailable
	}
	return convertInfo(data.ATASmartData), nil
}

func (d *device) Identify(ctx context.Context) (smart.Identify, error) {
	if d.closed {
		return smart.Identify{}, smart.ErrClosed
	}
	if d.info.ModelName == "" && d.info.SerialNumber == "" {
		return smart.Identify{}, smart.ErrNotAvailable
	}
	return smart.Identify{
		Model:    d.info.ModelName,
		Serial:   d.info.SerialNumber,
		Firmware: d.info.FirmwareVersion,
	}, nil
}

func (d *device) Size(ctx context.Context) (uint64, error) {
	if d.closed {
		return 0, smart.ErrClosed
	}
	switch {
	case d.info.UserCapacity != nil:
		return uint64(d.info.UserCapacity.Bytes), nil
	case d.info.NVMeTotalCapacity > 0:
		return uint64(d.info.NVMeTotalCapacity), nil
	}
	return 0, smart.ErrNotAvailable
}

func (d *device) PowerOn(ctx context.Context) (time.Duration, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return 0, err
	}
	if data.PowerOnTime == nil {
		if data.NVMeSmartHealthInfoLog != nil {
			return time.Duration(data.NVMeSmartHealthInfoLog.PowerOnHours) * time.Hour, nil
		}
		return 0, smart.ErrNotAvailable
	}
	return time.Duration(data.PowerOnTime.Hours)*time.Hour + time.Duration(data.PowerOnTime.Minutes)*time.Minute, nil
}

func (d *device) PowerCycle(ctx context.Context) (uint64, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return 0, err
	}
	if data.PowerCycleCount == nil {
		if data.NVMeSmartHealthInfoLog != nil {
			return uint64(data.NVMeSmartHealthInfoLog.PowerCycles), nil
		}
		return 0, smart.ErrNotAvailable
	}
	return uint64(*data.PowerCycleCount), nil
}

func (d *device) BadSectors(ctx context.Context) (uint64, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return 0, err
	}
	return deviceBadSectors(data, convertAttributes(data.ATASMARTAttributes))
}

func (d *device) Temperature(ctx context.Context) (uint64, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return 0, err
	}
	if data.Temperature == nil {
		// older smartctl releases only report it in the NVMe health log
		if data.NVMeSmartHealthInfoLog != nil {
			return smart.CelsiusToMilliKelvin(float64(data.NVMeSmartHealthInfoLog.Temperature)), nil
		}
		return 0, smart.ErrNotAvailable
	}
	return smart.CelsiusToMilliKelvin(float64(data.Temperature.Current)), nil
}

func (d *device) Overall(ctx context.Context) (smart.Overall, error) {
	data, err := d.smartData(ctx)
	if err != nil {
		return smart.OverallGood, err
	}
	size, err := d.Size(ctx)
	if err != nil && !errors.Is(err, smart.ErrNotAvailable) {
		return smart.OverallGood, err
	}
	return overall(data, size)
}

func (d *device) SelfTest(ctx context.Context, t smart.SelfTestType) error {
	if d.closed {
		return smart.ErrClosed
	}
	var arg string
	switch t {
	case smart.SelfTestShort:
		arg = "--test=short"
	case smart.SelfTestExtended:
		arg = "--test=long"
	case smart.SelfTestConveyance:
		arg = "--test=conveyance"
	case smart.SelfTestAbort:
		arg = "--abort"
	default:
		return fmt.Errorf("unsupported self-test type %d", int(t))
	}
	out, code, err := d.backend.runner.Run(ctx, d.backend.args(d.path, arg)...)
	if err != nil {
		return err
	}
	if code&(exitCommandLine|exitDeviceOpen|exitSmartCommand) != 0 {
		return commandError(out, code)
	}
	// the cached data no longer reflects the self-test state
	d.data = nil
	return nil
}

func (d *device) Close() error {
	if d.closed {
		return smart.ErrClosed
	}
	d.closed = true
	d.data = nil
	return nil
}

// convertInfo maps the ATA SMART data page header onto smart.Info.
func convertInfo(a *SmartCtlATASmartData) smart.Info {
	selfTest := a.SelfTest.Status.Value
	caps := a.Capabilities
	return smart.Info{
		OfflineDataCollectionStatus:       offlineStatus(a.OfflineDataCollection.Status.Value),
		TotalOfflineDataCollectionSeconds: uint64(a.OfflineDataCollection.CompletionSeconds),
		SelfTestExecutionStatus:           smart.SelfTestExecutionStatus((selfTest >> 4) & 0xF),
		SelfTestExecutionPercentRemaining: uint64(selfTest&0xF) * 10,
		ConveyanceTestAvailable:           caps.ConveyanceSelfTestSupported,
		ShortAndExtendedTestAvailable:     caps.SelfTestsSupported,
		StartTestAvailable:                caps.ExecOfflineImmediateSupported,
		AbortTestAvailable:                caps.ExecOfflineImmediateSupported || caps.SelfTestsSupported || caps.ConveyanceSelfTestSupported,
		ShortTestPollingMinutes:           uint64(a.SelfTest.PollingMinutes.Short),
		ExtendedTestPollingMinutes:        uint64(a.SelfTest.PollingMinutes.Extended),
		ConveyanceTestPollingMinutes:      uint64(a.SelfTest.PollingMinutes.Conveyance),
	}
}

// offlineStatus decodes the off-line data collection status byte. Bit 7 only
// flags automatic collection and is ignored.
func offlineStatus(v int64) smart.OfflineDataCollectionStatus {
	switch v & 0x7F {
	case 0x00:
		return smart.OfflineDataCollectionNever
	case 0x02:
		return smart.OfflineDataCollectionSuccess
	case 0x03:
		if v&0x80 != 0 {
			return smart.OfflineDataCollectionUnknown
		}
		return smart.OfflineDataCollectionInProgress
	case 0x04:
		return smart.OfflineDataCollectionSuspended
	case 0x05:
		return smart.OfflineDataCollectionAborted
	case 0x06:
		return smart.OfflineDataCollectionFatal
	}
	return smart.OfflineDataCollectionUnknown
}
