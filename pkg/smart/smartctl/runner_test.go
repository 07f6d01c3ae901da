// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerKeepsOutputOnExitStatus(t *testing.T) {
	r := ExecRunner{Path: "/bin/sh"}
	out, code, err := r.Run(context.Background(), "-c", `echo '{"smartctl":{}}'; exit 4`)
	require.NoError(t, err)
	assert.Equal(t, 4, code)
	assert.JSONEq(t, `{"smartctl":{}}`, string(out))
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := ExecRunner{Path: "/nonexistent/smartctl"}
	_, code, err := r.Run(context.Background(), "--json")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
	assert.False(t, Installed("/nonexistent/smartctl"))
}

func TestExecRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := ExecRunner{Path: "/bin/sh"}
	_, code, err := r.Run(ctx, "-c", "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, code)
}

func TestCommandErrorWithoutMessages(t *testing.T) {
	err := commandError([]byte(`{"smartctl":{"exit_status":1}}`), 1)
	assert.EqualError(t, err, "smartctl exited with status 1")
}
