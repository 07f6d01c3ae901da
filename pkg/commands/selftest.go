// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

var (
	selfTestType         string
	selfTestWait         bool
	selfTestPollInterval time.Duration
)

var selfTestCmd = &cobra.Command{
	Use:   "selftest <device>",
	Short: "Start or abort a S.M.A.R.T. self-test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := smart.ParseSelfTestType(selfTestType)
		if err != nil {
			return err
		}
		if selfTestWait && selfTestPollInterval <= 0 {
			return fmt.Errorf("--poll-interval must be positive, got %s", selfTestPollInterval)
		}

		d := smart.NewDisk(args[0], newBackend())
		defer closeDisk(d)

		if err := d.SelfTest(cmd.Context(), t); err != nil {
			return err
		}
		log.Info().Str("device", args[0]).Str("type", t.String()).Msg("self-test started")
		fmt.Fprintf(cmd.OutOrStdout(), "%s self-test requested on %s\n", t, args[0])

		if !selfTestWait || t == smart.SelfTestAbort {
			return nil
		}
		info, err := waitForSelfTest(cmd.Context(), d, selfTestPollInterval, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.SelfTestExecutionStatus)
		if info.SelfTestExecutionStatus != smart.SelfTestExecutionSuccessOrNever {
			return fmt.Errorf("self-test on %s did not complete successfully", args[0])
		}
		return nil
	},
}

func init() {
	selfTestCmd.Flags().StringVar(&selfTestType, "type", "short", "Self-test to run (short, extended, conveyance, abort)")
	selfTestCmd.Flags().BoolVar(&selfTestWait, "wait", false, "Wait for the self-test to finish")
	selfTestCmd.Flags().DurationVar(&selfTestPollInterval, "poll-interval", 30*time.Second, "How often to poll the self-test progress")
}

// waitForSelfTest polls the self-test state until the disk reports it is no
// longer running, drawing the progress to w.
func waitForSelfTest(ctx context.Context, d *smart.Disk, interval time.Duration, w io.Writer) (smart.Info, error) {
	if interval <= 0 {
		return smart.Info{}, fmt.Errorf("non-positive poll interval %s", interval)
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(fmt.Sprintf("self-test %s", d.Path())),
		progressbar.OptionSetPredictTime(false),
	)
	defer bar.Finish()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return smart.Info{}, ctx.Err()
		case <-ticker.C:
		}

		if err := d.ReadData(ctx); err != nil {
			return smart.Info{}, err
		}
		info, err := d.Info(ctx)
		if err != nil {
			return smart.Info{}, err
		}
		if info.SelfTestExecutionStatus != smart.SelfTestExecutionInProgress {
			_ = bar.Set(100)
			return info, nil
		}
		remaining := info.SelfTestExecutionPercentRemaining
		if remaining > 100 {
			remaining = 100
		}
		_ = bar.Set(int(100 - remaining))
	}
}
