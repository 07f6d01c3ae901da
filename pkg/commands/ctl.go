// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
	"github.com/cobaltcore-dev/smartdump/pkg/smart/smartctl"
)

var (
	v            string
	smartctlPath string
	deviceType   string
)

// newBackend builds the engine every device command talks to.
var newBackend = func() smart.Backend {
	return smartctl.New(
		smartctl.WithRunner(smartctl.ExecRunner{Path: smartctlPath}),
		smartctl.WithDeviceType(deviceType),
	)
}

var rootCmd = &cobra.Command{
	Use:   "smartdump",
	Short: "CLI for disk S.M.A.R.T. inspection",
	Long:  "A CLI tool to read S.M.A.R.T. health data from disks, run self-tests, and export disk health metrics and reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setUpLogs(v); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&v, "verbosity", "v", zerolog.WarnLevel.String(), "Log level (debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&smartctlPath, "smartctl", getEnv("SMARTCTL_PATH", "smartctl"), "Path to the smartctl binary")
	rootCmd.PersistentFlags().StringVarP(&deviceType, "device-type", "d", getEnv("DEVICE_TYPE", ""), "smartctl device type, e.g. sat or nvme")

	// Add subcommands
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(selfTestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(useConfigCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errValueReached) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'\n", err)
		os.Exit(1)
	}
}

// setUpLogs sets the log output and the log level
func setUpLogs(level string) error {
	zerolog.SetGlobalLevel(zerolog.WarnLevel) // Default level
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	// stdout carries command output
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
