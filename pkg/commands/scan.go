// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/smart/smartctl"
)

type deviceScanner interface {
	Scan(ctx context.Context) ([]smartctl.SmartCtlDevice, error)
}

var newScanner = func() deviceScanner {
	return smartctl.New(smartctl.WithRunner(smartctl.ExecRunner{Path: smartctlPath}))
}

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the disks that answer S.M.A.R.T. queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := newScanner().Scan(cmd.Context())
		if err != nil {
			return err
		}
		if scanJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(devices)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "DEVICE\tTYPE\tPROTOCOL")
		for _, dev := range devices {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", dev.Name, dev.Type, dev.Protocol)
		}
		return tw.Flush()
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the device list as JSON")
}
