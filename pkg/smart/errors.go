// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smart

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAttribute is returned when an attribute id is not in the disk's table.
	ErrInvalidAttribute = errors.New("invalid S.M.A.R.T ID")
	// ErrNotAvailable is returned by a backend when the requested data does not exist on the device.
	ErrNotAvailable = errors.New("data not available")
	// ErrClosed is returned by a handle that was already closed.
	ErrClosed = errors.New("device closed")
)

// Error wraps a failed engine call with the operation it belonged to.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s on %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidAttribute(id uint8) error {
	return fmt.Errorf("%w: %d. may be unsupported?", ErrInvalidAttribute, id)
}
