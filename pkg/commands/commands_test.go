// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltcore-dev/smartdump/pkg/producers/diskhealth"
	"github.com/cobaltcore-dev/smartdump/pkg/report"
	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smartctl"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smarttest"
)

func TestDumpText(t *testing.T) {
	out, err := runCommand(t, smarttest.HealthyATA(), "dump", "/dev/sda", "--json=false")
	require.NoError(t, err)

	assert.Contains(t, out, "ST2000DM008-2FR102")
	assert.Contains(t, out, "GOOD")
	assert.Contains(t, out, "Reallocated_Sector_Ct")
}

func TestDumpJSON(t *testing.T) {
	out, err := runCommand(t, smarttest.HealthyATA(), "dump", "/dev/sda", "--json")
	require.NoError(t, err)

	var r map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "/dev/sda", r["device"])
	assert.Equal(t, "GOOD", r["overall"])
	assert.Len(t, r["attributes"], 2)
}

func TestDumpReadFailure(t *testing.T) {
	h := smarttest.HealthyATA()
	h.Errs = map[string]error{"ReadData": errors.New("input/output error")}

	_, err := runCommand(t, h, "dump", "/dev/sda", "--json=false")
	assert.ErrorContains(t, err, "input/output error")
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		value   string
		wantErr error
	}{
		{name: "reached", id: "5", value: "100", wantErr: errValueReached},
		{name: "below", id: "5", value: "101"},
		{name: "unknown attribute", id: "9", value: "1", wantErr: smart.ErrInvalidAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, smarttest.HealthyATA(), "check", "/dev/sda", "--id", tt.id, "--value", tt.value)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSelfTestStarts(t *testing.T) {
	h := smarttest.HealthyATA()
	out, err := runCommand(t, h, "selftest", "/dev/sda", "--type", "extended", "--wait=false")
	require.NoError(t, err)

	assert.Equal(t, []smart.SelfTestType{smart.SelfTestExtended}, h.SelfTests)
	assert.Contains(t, out, "extended self-test requested on /dev/sda")
}

func TestSelfTestUnknownType(t *testing.T) {
	h := smarttest.HealthyATA()
	_, err := runCommand(t, h, "selftest", "/dev/sda", "--type", "thorough", "--wait=false")
	assert.Error(t, err)
	assert.Empty(t, h.SelfTests)
}

func TestSelfTestRejectsPollInterval(t *testing.T) {
	for _, interval := range []string{"0s", "-5s"} {
		t.Run(interval, func(t *testing.T) {
			h := smarttest.HealthyATA()
			_, err := runCommand(t, h, "selftest", "/dev/sda", "--type", "short", "--wait", "--poll-interval="+interval)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--poll-interval must be positive")
			assert.Empty(t, h.SelfTests)
		})
	}
}

func TestWaitForSelfTestNonPositiveInterval(t *testing.T) {
	h := smarttest.HealthyATA()
	d := smart.NewDisk("/dev/sda", &smarttest.Backend{Handles: map[string]*smarttest.Handle{"/dev/sda": h}})

	_, err := waitForSelfTest(context.Background(), d, 0, io.Discard)
	assert.Error(t, err)
	assert.Equal(t, 0, h.Reads)
}

func TestWaitForSelfTestFinished(t *testing.T) {
	h := smarttest.HealthyATA()
	d := smart.NewDisk("/dev/sda", &smarttest.Backend{Handles: map[string]*smarttest.Handle{"/dev/sda": h}})

	info, err := waitForSelfTest(context.Background(), d, time.Millisecond, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, smart.SelfTestExecutionSuccessOrNever, info.SelfTestExecutionStatus)
	assert.Equal(t, 1, h.Reads)
}

func TestWaitForSelfTestCancelled(t *testing.T) {
	h := smarttest.HealthyATA()
	h.InfoData.SelfTestExecutionStatus = smart.SelfTestExecutionInProgress
	h.InfoData.SelfTestExecutionPercentRemaining = 70
	d := smart.NewDisk("/dev/sda", &smarttest.Backend{Handles: map[string]*smarttest.Handle{"/dev/sda": h}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := waitForSelfTest(ctx, d, time.Millisecond, io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakeUploader struct {
	reports []*report.Report
}

func (f *fakeUploader) Upload(_ context.Context, r *report.Report) (string, error) {
	f.reports = append(f.reports, r)
	return r.ObjectKey("smart"), nil
}

func TestReportToS3(t *testing.T) {
	up := &fakeUploader{}
	old := newUploader
	var gotCfg report.S3Config
	newUploader = func(_ context.Context, cfg report.S3Config) (report.Uploader, error) {
		gotCfg = cfg
		return up, nil
	}
	t.Cleanup(func() { newUploader = old })

	out, err := runCommand(t, smarttest.HealthyATA(), "report", "/dev/sda",
		"--node-name", "node-a", "--s3-bucket", "disk-reports", "--s3-endpoint", "http://rgw.local:7480")
	require.NoError(t, err)

	assert.Equal(t, "disk-reports", gotCfg.Bucket)
	assert.Equal(t, "http://rgw.local:7480", gotCfg.Endpoint)
	require.Len(t, up.reports, 1)
	assert.Equal(t, "node-a", up.reports[0].NodeName)
	assert.Contains(t, out, "s3://disk-reports/smart/node-a/ZFL0ABCD/")
}

func TestReportToStdout(t *testing.T) {
	out, err := runCommand(t, smarttest.HealthyATA(), "report", "/dev/sda", "--node-name", "node-b", "--s3-bucket=")
	require.NoError(t, err)

	var r struct {
		NodeName string          `json:"node_name"`
		Identify *smart.Identify `json:"identify"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "node-b", r.NodeName)
	require.NotNil(t, r.Identify)
	assert.Equal(t, "ZFL0ABCD", r.Identify.Serial)
}

type fakeScanner struct {
	devices []smartctl.SmartCtlDevice
	err     error
}

func (f fakeScanner) Scan(context.Context) ([]smartctl.SmartCtlDevice, error) {
	return f.devices, f.err
}

func TestScan(t *testing.T) {
	old := newScanner
	newScanner = func() deviceScanner {
		return fakeScanner{devices: []smartctl.SmartCtlDevice{
			{Name: "/dev/sda", Type: "sat", Protocol: "ATA"},
			{Name: "/dev/nvme0", Type: "nvme", Protocol: "NVMe"},
		}}
	}
	t.Cleanup(func() { newScanner = old })

	out, err := runCommand(t, smarttest.HealthyATA(), "scan", "--json=false")
	require.NoError(t, err)

	assert.Contains(t, out, "DEVICE")
	assert.Contains(t, out, "/dev/nvme0")
	assert.Contains(t, out, "NVMe")
}

func TestMergeDiskHealthConfigWithEnv(t *testing.T) {
	t.Setenv("DISKS", "/dev/sdc, /dev/sdd")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("TEMPERATURE_THRESHOLD", "50")
	t.Setenv("SKIP_STANDBY", "true")

	cfg := mergeDiskHealthConfigWithEnv(diskhealth.DiskHealthConfig{
		Disks:                []string{"*"},
		Interval:             60,
		TemperatureThreshold: 60,
	})

	assert.Equal(t, []string{"/dev/sdc", "/dev/sdd"}, cfg.Disks)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
	assert.Equal(t, int64(50), cfg.TemperatureThreshold)
	assert.True(t, cfg.SkipStandby)
	assert.Equal(t, 60, cfg.Interval)
}

func TestValidateDiskHealthConfig(t *testing.T) {
	assert.NoError(t, validateDiskHealthConfig(diskhealth.DiskHealthConfig{Disks: []string{"*"}, Interval: 60}))

	err := validateDiskHealthConfig(diskhealth.DiskHealthConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--disks or DISKS must be set")
	assert.Contains(t, err.Error(), "--interval or INTERVAL must be positive")
}

func TestSplitDisks(t *testing.T) {
	assert.Equal(t, []string{"/dev/sda", "/dev/sdb"}, splitDisks(" /dev/sda,,/dev/sdb "))
	assert.Nil(t, splitDisks(""))
}
