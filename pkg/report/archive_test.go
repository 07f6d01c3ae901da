// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smarttest"
)

type memoryUploader struct {
	reports []*Report
	failFor string
}

func (m *memoryUploader) Upload(_ context.Context, r *Report) (string, error) {
	if r.Device == m.failFor {
		return "", errors.New("bucket unavailable")
	}
	m.reports = append(m.reports, r)
	return r.ObjectKey(""), nil
}

func TestArchiveOnce(t *testing.T) {
	broken := smarttest.HealthyATA()
	broken.Errs = map[string]error{"ReadData": errors.New("input/output error")}
	backend := &smarttest.Backend{Handles: map[string]*smarttest.Handle{
		"/dev/sda": smarttest.HealthyATA(),
		"/dev/sdb": broken,
		"/dev/sdc": smarttest.HealthyATA(),
	}}
	disks := []*smart.Disk{
		smart.NewDisk("/dev/sda", backend),
		smart.NewDisk("/dev/sdb", backend),
		smart.NewDisk("/dev/sdc", backend),
	}
	up := &memoryUploader{failFor: "/dev/sdc"}

	n := ArchiveOnce(context.Background(), disks, up, "node-a")

	assert.Equal(t, 1, n)
	if assert.Len(t, up.reports, 1) {
		assert.Equal(t, "/dev/sda", up.reports[0].Device)
		assert.Equal(t, "node-a", up.reports[0].NodeName)
	}
}
