// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package smartctl

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultBinary = "smartctl"

// Runner executes smartctl and returns its stdout and exit status.
// err is only set when the process could not be run at all.
type Runner interface {
	Run(ctx context.Context, args ...string) (stdout []byte, exitCode int, err error)
}

// ExecRunner runs the smartctl binary found at Path, or on $PATH.
type ExecRunner struct {
	Path string
}

func (r ExecRunner) binary() string {
	if r.Path != "" {
		return r.Path
	}
	return defaultBinary
}

func (r ExecRunner) Run(ctx context.Context, args ...string) ([]byte, int, error) {
	log.Debug().Str("cmd", r.binary()+" "+strings.Join(args, " ")).Msg("running smartctl")

	out, err := exec.CommandContext(ctx, r.binary(), args...).Output()
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return nil, -1, fmt.Errorf("smartctl interrupted: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// smartctl reports disk problems through exit status bits; stdout is still valid JSON
		return out, exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, -1, fmt.Errorf("error running smartctl: %w", err)
	}
	return out, 0, nil
}

// Installed reports whether smartctl can be found.
func Installed(path string) bool {
	_, err := exec.LookPath(ExecRunner{Path: path}.binary())
	return err == nil
}
