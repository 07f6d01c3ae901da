// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Disk is a device path bound to a Backend. The device is opened on the
// first accessor call and stays open until Close.
//
// Engine calls on one Disk are serialized.
type Disk struct {
	path    string
	backend Backend

	mu     sync.Mutex
	handle Handle
	opened bool
}

// NewDisk returns a Disk for path. Nothing is opened yet.
func NewDisk(path string, backend Backend) *Disk {
	return &Disk{path: path, backend: backend}
}

// Path is the device path the Disk was created with.
func (d *Disk) Path() string {
	return d.path
}

// Opened reports whether the device is currently open.
func (d *Disk) Opened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

// Open opens the device. Opening an already open Disk is a no-op.
func (d *Disk) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openLocked(ctx)
}

func (d *Disk) openLocked(ctx context.Context) error {
	if d.opened {
		return nil
	}
	h, err := d.backend.Open(ctx, d.path)
	if err != nil {
		return &Error{Op: "open disk", Path: d.path, Err: err}
	}
	d.handle = h
	d.opened = true
	log.Debug().Str("device", d.path).Msg("device opened")
	return nil
}

// Close releases the device. A later accessor call opens it again.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened {
		return nil
	}
	err := d.handle.Close()
	d.handle = nil
	d.opened = false
	log.Debug().Str("device", d.path).Msg("device closed")
	if err != nil {
		return &Error{Op: "close disk", Path: d.path, Err: err}
	}
	return nil
}

// do runs fn against an open handle, opening the device first if needed.
func (d *Disk) do(ctx context.Context, op string, fn func(Handle) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.openLocked(ctx); err != nil {
		return err
	}
	if err := fn(d.handle); err != nil {
		var se *Error
		if errors.As(err, &se) {
			return err
		}
		return &Error{Op: op, Path: d.path, Err: err}
	}
	return nil
}

// Size is the user capacity in bytes.
func (d *Disk) Size(ctx context.Context) (uint64, error) {
	var size uint64
	err := d.do(ctx, "get size", func(h Handle) (err error) {
		size, err = h.Size(ctx)
		return err
	})
	return size, err
}

// SizeMiB is the capacity in whole mebibytes.
func (d *Disk) SizeMiB(ctx context.Context) (float64, error) {
	size, err := d.Size(ctx)
	if err != nil {
		return 0, err
	}
	return float64(size / 1024 / 1024), nil
}

// SizeText is the capacity in IEC units, e.g. "1.8 TiB".
func (d *Disk) SizeText(ctx context.Context) (string, error) {
	size, err := d.Size(ctx)
	if err != nil {
		return "", err
	}
	return humanize.IBytes(size), nil
}

// Status reports whether the drive's SMART self-assessment passed.
func (d *Disk) Status(ctx context.Context) (bool, error) {
	var good bool
	err := d.do(ctx, "get SMART status", func(h Handle) (err error) {
		good, err = h.SmartStatus(ctx)
		return err
	})
	return good, err
}

func (d *Disk) IdentifyData(ctx context.Context) (Identify, error) {
	var id Identify
	err := d.do(ctx, "parse identify data", func(h Handle) (err error) {
		id, err = h.Identify(ctx)
		return err
	})
	return id, err
}

func (d *Disk) IdentifyAvailable(ctx context.Context) (bool, error) {
	var ok bool
	err := d.do(ctx, "check identify data available", func(h Handle) (err error) {
		ok, err = h.IdentifyIsAvailable(ctx)
		return err
	})
	return ok, err
}

// SleepMode reports true when the disk is awake.
func (d *Disk) SleepMode(ctx context.Context) (bool, error) {
	var awake bool
	err := d.do(ctx, "check sleep mode", func(h Handle) (err error) {
		awake, err = h.CheckSleepMode(ctx)
		return err
	})
	return awake, err
}

// Available reports whether the disk supports SMART.
func (d *Disk) Available(ctx context.Context) (bool, error) {
	var ok bool
	err := d.do(ctx, "check if SMART is available", func(h Handle) (err error) {
		ok, err = h.SmartIsAvailable(ctx)
		return err
	})
	return ok, err
}

// BadSectors is the number of reallocated plus pending sectors. ok is false
// when the disk keeps no such counters.
func (d *Disk) BadSectors(ctx context.Context) (count uint64, ok bool, err error) {
	err = d.do(ctx, "get number of bad sectors", func(h Handle) error {
		n, err := h.BadSectors(ctx)
		if errors.Is(err, ErrNotAvailable) {
			return nil
		}
		if err != nil {
			return err
		}
		count, ok = n, true
		return nil
	})
	return count, ok, err
}

// BadSectorsText is empty when the disk keeps no bad sector counters.
func (d *Disk) BadSectorsText(ctx context.Context) (string, error) {
	n, ok, err := d.BadSectors(ctx)
	if err != nil || !ok {
		return "", err
	}
	return FormatValue(n, UnitSectors), nil
}

func (d *Disk) PowerCycle(ctx context.Context) (uint64, error) {
	var n uint64
	err := d.do(ctx, "get number of power cycles", func(h Handle) (err error) {
		n, err = h.PowerCycle(ctx)
		return err
	})
	return n, err
}

func (d *Disk) PowerOn(ctx context.Context) (time.Duration, error) {
	var on time.Duration
	err := d.do(ctx, "get power on time", func(h Handle) (err error) {
		on, err = h.PowerOn(ctx)
		return err
	})
	return on, err
}

func (d *Disk) PowerOnText(ctx context.Context) (string, error) {
	on, err := d.PowerOn(ctx)
	if err != nil {
		return "", err
	}
	return FormatValue(uint64(on.Milliseconds()), UnitMilliseconds), nil
}

// Temperature is in degrees Celsius.
func (d *Disk) Temperature(ctx context.Context) (float64, error) {
	mk, err := d.temperatureMK(ctx)
	if err != nil {
		return 0, err
	}
	return MilliKelvinToCelsius(mk), nil
}

func (d *Disk) TemperatureText(ctx context.Context) (string, error) {
	mk, err := d.temperatureMK(ctx)
	if err != nil {
		return "", err
	}
	return FormatValue(mk, UnitMilliKelvin), nil
}

func (d *Disk) temperatureMK(ctx context.Context) (uint64, error) {
	var mk uint64
	err := d.do(ctx, "get disk temperature", func(h Handle) (err error) {
		mk, err = h.Temperature(ctx)
		return err
	})
	return mk, err
}

func (d *Disk) OverallHealth(ctx context.Context) (Overall, error) {
	var o Overall
	err := d.do(ctx, "get overall status", func(h Handle) (err error) {
		o, err = h.Overall(ctx)
		return err
	})
	return o, err
}

func (d *Disk) OverallHealthText(ctx context.Context) (string, error) {
	o, err := d.OverallHealth(ctx)
	if err != nil {
		return "", err
	}
	return o.String(), nil
}

// ReadData makes the engine re-read the SMART data page from the device.
func (d *Disk) ReadData(ctx context.Context) error {
	return d.do(ctx, "read SMART data", func(h Handle) error {
		return h.ReadData(ctx)
	})
}

func (d *Disk) Info(ctx context.Context) (Info, error) {
	var info Info
	err := d.do(ctx, "parse SMART info", func(h Handle) (err error) {
		info, err = h.Info(ctx)
		return err
	})
	return info, err
}

func (d *Disk) InfoText(ctx context.Context) (map[string]string, error) {
	info, err := d.Info(ctx)
	if err != nil {
		return nil, err
	}
	return info.Text(), nil
}

// Attributes returns the attribute table keyed by attribute id.
func (d *Disk) Attributes(ctx context.Context) (map[uint8]Attribute, error) {
	var attrs map[uint8]Attribute
	err := d.do(ctx, "parse SMART attributes", func(h Handle) (err error) {
		attrs, err = h.Attributes(ctx)
		return err
	})
	return attrs, err
}

// IsValueReached reports whether attribute id's current normalized value is
// at least value. An id missing from the table yields ErrInvalidAttribute.
func (d *Disk) IsValueReached(ctx context.Context, id uint8, value uint8) (bool, error) {
	attrs, err := d.Attributes(ctx)
	if err != nil {
		return false, err
	}
	attr, ok := attrs[id]
	if !ok {
		return false, invalidAttribute(id)
	}
	if attr.Value == nil {
		return false, nil
	}
	return *attr.Value >= value, nil
}

// SelfTest starts the given self-test routine, or aborts the running one.
func (d *Disk) SelfTest(ctx context.Context, t SelfTestType) error {
	return d.do(ctx, fmt.Sprintf("start %s self-test", t), func(h Handle) error {
		return h.SelfTest(ctx, t)
	})
}
