// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/report"
	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

var dumpJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump <device>",
	Short: "Print everything S.M.A.R.T. knows about a disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := smart.NewDisk(args[0], newBackend())
		defer closeDisk(d)

		r, err := report.Build(cmd.Context(), d, "")
		if err != nil {
			return err
		}
		if dumpJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		return r.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print the dump as JSON")
}

func closeDisk(d *smart.Disk) {
	if err := d.Close(); err != nil {
		log.Debug().Err(err).Str("device", d.Path()).Msg("error closing device")
	}
}
