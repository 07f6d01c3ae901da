// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

import (
	"context"
	"encoding/json"
	"fmt"
)

// Scan lists the devices smartctl could open and that answer SMART queries.
func (b *Backend) Scan(ctx context.Context) ([]SmartCtlDevice, error) {
	out, _, err := b.run(ctx, exitCommandLine, "--scan-open", "--json")
	if err != nil {
		return nil, err
	}
	var scan SmartCtlScanOutput
	if err := json.Unmarshal(out, &scan); err != nil {
		return nil, fmt.Errorf("error parsing smartctl scan output: %w", err)
	}
	return scan.Devices, nil
}
