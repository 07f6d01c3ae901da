// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

// errValueReached makes Execute exit with status 1 without printing an error.
var errValueReached = errors.New("attribute value reached")

var (
	checkID    uint8
	checkValue uint8
)

var checkCmd = &cobra.Command{
	Use:   "check <device>",
	Short: "Exit with status 1 when an attribute's current value reached a limit",
	Args:  cobra.ExactArgs(1),
	// the reached case is reported through the exit status only
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := smart.NewDisk(args[0], newBackend())
		defer closeDisk(d)

		reached, err := d.IsValueReached(cmd.Context(), checkID, checkValue)
		if err != nil {
			return err
		}
		if reached {
			fmt.Fprintf(cmd.OutOrStdout(), "attribute %d on %s reached %d\n", checkID, args[0], checkValue)
			return errValueReached
		}
		fmt.Fprintf(cmd.OutOrStdout(), "attribute %d on %s is below %d\n", checkID, args[0], checkValue)
		return nil
	},
}

func init() {
	checkCmd.Flags().Uint8Var(&checkID, "id", 0, "S.M.A.R.T. attribute ID")
	checkCmd.Flags().Uint8Var(&checkValue, "value", 0, "Normalized value to compare against")
	checkCmd.MarkFlagRequired("id")
	checkCmd.MarkFlagRequired("value")
}
