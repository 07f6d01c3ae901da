// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"context"
	"errors"
	"time"
)

type fakeBackend struct {
	opens   int
	openErr error
	handle  *fakeHandle
}

func (b *fakeBackend) Open(ctx context.Context, path string) (Handle, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.handle.closed = false
	return b.handle, nil
}

type fakeHandle struct {
	closed    bool
	reads     int
	selfTests []SelfTestType

	size       uint64
	status     bool
	awake      bool
	available  bool
	identify   Identify
	attrs      map[uint8]Attribute
	info       Info
	powerOn    time.Duration
	powerCycle uint64
	badSectors uint64
	badErr     error
	tempMK     uint64
	overall    Overall
	err        error
}

func (h *fakeHandle) check() error {
	if h.closed {
		return ErrClosed
	}
	return h.err
}

func (h *fakeHandle) ReadData(ctx context.Context) error {
	h.reads++
	return h.check()
}

func (h *fakeHandle) IdentifyIsAvailable(ctx context.Context) (bool, error) {
	return h.identify.Model != "", h.check()
}

func (h *fakeHandle) SmartIsAvailable(ctx context.Context) (bool, error) {
	return h.available, h.check()
}

func (h *fakeHandle) SmartStatus(ctx context.Context) (bool, error) {
	return h.status, h.check()
}

func (h *fakeHandle) CheckSleepMode(ctx context.Context) (bool, error) {
	return h.awake, h.check()
}

func (h *fakeHandle) Attributes(ctx context.Context) (map[uint8]Attribute, error) {
	return h.attrs, h.check()
}

func (h *fakeHandle) Info(ctx context.Context) (Info, error) {
	return h.info, h.check()
}

func (h *fakeHandle) Identify(ctx context.Context) (Identify, error) {
	return h.identify, h.check()
}

func (h *fakeHandle) Size(ctx context.Context) (uint64, error) {
	return h.size, h.check()
}

func (h *fakeHandle) PowerOn(ctx context.Context) (time.Duration, error) {
	return h.powerOn, h.check()
}

func (h *fakeHandle) PowerCycle(ctx context.Context) (uint64, error) {
	return h.powerCycle, h.check()
}

func (h *fakeHandle) BadSectors(ctx context.Context) (uint64, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.badSectors, h.badErr
}

func (h *fakeHandle) Temperature(ctx context.Context) (uint64, error) {
	return h.tempMK, h.check()
}

func (h *fakeHandle) Overall(ctx context.Context) (Overall, error) {
	return h.overall, h.check()
}

func (h *fakeHandle) SelfTest(ctx context.Context, t SelfTestType) error {
	h.selfTests = append(h.selfTests, t)
	return h.check()
}

func (h *fakeHandle) Close() error {
	if h.closed {
		return errors.New("double close")
	}
	h.closed = true
	return nil
}

func u8(v uint8) *uint8 { return &v }
