// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package smarttest provides an in-memory smart.Backend for tests.
package smarttest

import (
	"context"
	"sync"
	"time"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

// Handle answers every engine call from its fields. A non-nil entry in
// Errs makes the call of that name fail.
type Handle struct {
	mu sync.Mutex

	Awake        bool
	Available    bool
	Passed       bool
	OverallValue smart.Overall
	IdentifyData smart.Identify
	InfoData     smart.Info
	SizeBytes    uint64
	TempMK       uint64
	PowerOnTime  time.Duration
	Cycles       uint64
	Bad          uint64
	Attrs        map[uint8]smart.Attribute
	Errs         map[string]error

	Reads     int
	SelfTests []smart.SelfTestType
	Closed    bool
}

func (h *Handle) err(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Errs[name]
}

func (h *Handle) ReadData(context.Context) error {
	h.mu.Lock()
	h.Reads++
	h.mu.Unlock()
	return h.err("ReadData")
}

func (h *Handle) IdentifyIsAvailable(context.Context) (bool, error) {
	return h.IdentifyData.Model != "", h.err("IdentifyIsAvailable")
}

func (h *Handle) SmartIsAvailable(context.Context) (bool, error) {
	return h.Available, h.err("SmartIsAvailable")
}

func (h *Handle) SmartStatus(context.Context) (bool, error) {
	return h.Passed, h.err("SmartStatus")
}

func (h *Handle) CheckSleepMode(context.Context) (bool, error) {
	return h.Awake, h.err("CheckSleepMode")
}

func (h *Handle) Attributes(context.Context) (map[uint8]smart.Attribute, error) {
	return h.Attrs, h.err("Attributes")
}

func (h *Handle) Info(context.Context) (smart.Info, error) {
	return h.InfoData, h.err("Info")
}

func (h *Handle) Identify(context.Context) (smart.Identify, error) {
	return h.IdentifyData, h.err("Identify")
}

func (h *Handle) Size(context.Context) (uint64, error) {
	return h.SizeBytes, h.err("Size")
}

func (h *Handle) PowerOn(context.Context) (time.Duration, error) {
	return h.PowerOnTime, h.err("PowerOn")
}

func (h *Handle) PowerCycle(context.Context) (uint64, error) {
	return h.Cycles, h.err("PowerCycle")
}

func (h *Handle) BadSectors(context.Context) (uint64, error) {
	return h.Bad, h.err("BadSectors")
}

func (h *Handle) Temperature(context.Context) (uint64, error) {
	return h.TempMK, h.err("Temperature")
}

func (h *Handle) Overall(context.Context) (smart.Overall, error) {
	return h.OverallValue, h.err("Overall")
}

func (h *Handle) SelfTest(_ context.Context, t smart.SelfTestType) error {
	if err := h.err("SelfTest"); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.SelfTests = append(h.SelfTests, t)
	return nil
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Closed = true
	return nil
}

// Backend opens the Handle registered for a path and fails for any other path.
type Backend struct {
	Handles map[string]*Handle
	OpenErr error
}

func (b *Backend) Open(_ context.Context, path string) (smart.Handle, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	h, ok := b.Handles[path]
	if !ok {
		return nil, smart.ErrNotAvailable
	}
	h.mu.Lock()
	h.Closed = false
	h.mu.Unlock()
	return h, nil
}

// HealthyATA returns a handle describing a healthy 2 TB SATA disk.
func HealthyATA() *Handle {
	u8 := func(v uint8) *uint8 { return &v }
	b := func(v bool) *bool { return &v }
	return &Handle{
		Awake:        true,
		Available:    true,
		Passed:       true,
		OverallValue: smart.OverallGood,
		IdentifyData: smart.Identify{Model: "ST2000DM008-2FR102", Serial: "ZFL0ABCD", Firmware: "0001"},
		InfoData: smart.Info{
			OfflineDataCollectionStatus:   smart.OfflineDataCollectionSuccess,
			ShortAndExtendedTestAvailable: true,
			StartTestAvailable:            true,
			AbortTestAvailable:            true,
			ShortTestPollingMinutes:       1,
			ExtendedTestPollingMinutes:    211,
		},
		SizeBytes:   2000398934016,
		TempMK:      smart.CelsiusToMilliKelvin(34),
		PowerOnTime: 26 * time.Hour,
		Cycles:      112,
		Attrs: map[uint8]smart.Attribute{
			5: {
				ID: 5, Name: "Reallocated_Sector_Ct", Value: u8(100), Worst: u8(100), Threshold: u8(10),
				Unit: smart.UnitSectors, HumanReadable: "0 sectors", Type: smart.AttributeTypePrefail,
				Failed: b(false), Good: b(true), Past: b(true),
			},
			194: {
				ID: 194, Name: "Temperature_Celsius", Value: u8(34), Worst: u8(46), Threshold: u8(0),
				Unit: smart.UnitMilliKelvin, PrettyValue: 307150, HumanReadable: "34.0 C", Type: smart.AttributeTypeOldAge,
				Raw: [6]byte{0x22}, Good: b(true), Past: b(true),
			},
		},
	}
}
