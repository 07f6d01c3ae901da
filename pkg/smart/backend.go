// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package smart is a thin object wrapper around an external S.M.A.R.T. engine.
//
// A Disk opens its device lazily on first access and forwards every query to
// the Handle returned by a Backend. The wrapper itself never decodes ATA
// attribute tables or identify blocks; that work belongs to the engine.
package smart

import (
	"context"
	"time"
)

// Backend opens devices on an external S.M.A.R.T. engine.
type Backend interface {
	Open(ctx context.Context, path string) (Handle, error)
}

// Handle is an opened device. Each method is one call into the engine.
type Handle interface {
	ReadData(ctx context.Context) error
	IdentifyIsAvailable(ctx context.Context) (bool, error)
	SmartIsAvailable(ctx context.Context) (bool, error)
	SmartStatus(ctx context.Context) (bool, error)
	// CheckSleepMode reports true when the device is awake.
	CheckSleepMode(ctx context.Context) (bool, error)
	Attributes(ctx context.Context) (map[uint8]Attribute, error)
	Info(ctx context.Context) (Info, error)
	Identify(ctx context.Context) (Identify, error)
	// Size is the user capacity in bytes.
	Size(ctx context.Context) (uint64, error)
	PowerOn(ctx context.Context) (time.Duration, error)
	PowerCycle(ctx context.Context) (uint64, error)
	// BadSectors returns ErrNotAvailable when the device keeps no such counters.
	BadSectors(ctx context.Context) (uint64, error)
	// Temperature is in millikelvin.
	Temperature(ctx context.Context) (uint64, error)
	Overall(ctx context.Context) (Overall, error)
	SelfTest(ctx context.Context, t SelfTestType) error
	Close() error
}
