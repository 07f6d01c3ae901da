// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smarttest"
)

func TestGetEnv(t *testing.T) {
	key := "TEST_KEY"
	fallback := "default_value"

	// Test when the environment variable is not set
	value := getEnv(key, fallback)
	assert.Equal(t, fallback, value)

	// Test when the environment variable is set
	expectedValue := "expected_value"
	os.Setenv(key, expectedValue)
	value = getEnv(key, fallback)
	assert.Equal(t, expectedValue, value)

	// Clean up
	os.Unsetenv(key)
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BAD", "forty-two")

	assert.Equal(t, 42, getEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("TEST_BAD", 1))
	assert.Equal(t, int64(42), getEnvInt64("TEST_INT", 1))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.False(t, getEnvBool("TEST_BAD", false))
}

func TestSetUpLogs(t *testing.T) {
	assert.NoError(t, setUpLogs("debug"))
	assert.Error(t, setUpLogs("loud"))
	assert.NoError(t, setUpLogs("warn"))
}

// runCommand executes the root command against an in-memory disk at /dev/sda.
func runCommand(t *testing.T, h *smarttest.Handle, args ...string) (string, error) {
	t.Helper()
	old := newBackend
	newBackend = func() smart.Backend {
		return &smarttest.Backend{Handles: map[string]*smarttest.Handle{"/dev/sda": h}}
	}
	t.Cleanup(func() { newBackend = old })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
