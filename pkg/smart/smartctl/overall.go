// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

import (
	"errors"
	"math/bits"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

const (
	attrReallocatedSectors = 5
	attrPendingSectors     = 197
)

// badSectors sums reallocated and pending sectors.
func badSectors(attrs map[uint8]smart.Attribute) (uint64, error) {
	var (
		sum   uint64
		found bool
	)
	for _, id := range []uint8{attrReallocatedSectors, attrPendingSectors} {
		if a, ok := attrs[id]; ok {
			sum += a.PrettyValue
			found = true
		}
	}
	if !found {
		return 0, smart.ErrNotAvailable
	}
	return sum, nil
}

// deviceBadSectors counts ATA sector attributes, or the grown defect list of a SCSI disk.
func deviceBadSectors(data *SmartCtlOutput, attrs map[uint8]smart.Attribute) (uint64, error) {
	n, err := badSectors(attrs)
	if errors.Is(err, smart.ErrNotAvailable) && data.SCSIGrownDefectList != nil {
		return uint64(*data.SCSIGrownDefectList), nil
	}
	return n, err
}

// badSectorThreshold scales with the disk: log2 of the sector count times 1024.
func badSectorThreshold(size uint64) uint64 {
	sectors := size / 512
	if sectors == 0 {
		return 0
	}
	return uint64(bits.Len64(sectors)-1) * 1024
}

// overall classifies a disk, worst finding first.
func overall(data *SmartCtlOutput, size uint64) (smart.Overall, error) {
	if data.SmartStatus != nil && !data.SmartStatus.Passed {
		return smart.OverallBadStatus, nil
	}

	attrs := convertAttributes(data.ATASMARTAttributes)
	sectors, err := deviceBadSectors(data, attrs)
	haveSectors := true
	if errors.Is(err, smart.ErrNotAvailable) {
		haveSectors = false
	}

	if limit := badSectorThreshold(size); haveSectors && limit > 0 && sectors >= limit {
		return smart.OverallBadSectorMany, nil
	}

	for _, a := range attrs {
		if a.Prefailure() && a.Good != nil && !*a.Good {
			return smart.OverallBadAttributeNow, nil
		}
	}

	if haveSectors && sectors > 0 {
		return smart.OverallBadSector, nil
	}

	for _, a := range attrs {
		if a.Prefailure() && a.Past != nil && !*a.Past {
			return smart.OverallBadAttributeInThePast, nil
		}
	}

	return smart.OverallGood, nil
}
