// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

// Uploader stores a finished report somewhere and returns where.
type Uploader interface {
	Upload(ctx context.Context, r *Report) (string, error)
}

type ArchiveConfig struct {
	Disks    []string
	Interval int // seconds
	NodeName string
	S3       S3Config
}

// ArchiveOnce builds and uploads one report per disk. Disks that fail are
// logged and skipped; the number of uploaded reports is returned.
func ArchiveOnce(ctx context.Context, disks []*smart.Disk, up Uploader, nodeName string) int {
	uploaded := 0
	for _, d := range disks {
		r, err := Build(ctx, d, nodeName)
		if err != nil {
			log.Error().Err(err).Str("device", d.Path()).Msg("error building report")
			continue
		}
		if _, err := up.Upload(ctx, r); err != nil {
			log.Error().Err(err).Str("device", d.Path()).Msg("error archiving report")
			continue
		}
		uploaded++
	}
	return uploaded
}

// StartArchiving uploads a report for every disk each Interval until ctx is done.
func StartArchiving(ctx context.Context, cfg ArchiveConfig, backend smart.Backend) {
	up, err := NewS3Uploader(ctx, cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating s3 uploader")
	}

	disks := make([]*smart.Disk, 0, len(cfg.Disks))
	for _, p := range cfg.Disks {
		if p != "" {
			disks = append(disks, smart.NewDisk(p, backend))
		}
	}
	defer func() {
		for _, d := range disks {
			if err := d.Close(); err != nil {
				log.Warn().Err(err).Str("device", d.Path()).Msg("error closing device")
			}
		}
	}()

	interval := cfg.Interval
	if interval <= 0 {
		interval = 3600
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		n := ArchiveOnce(ctx, disks, up, cfg.NodeName)
		log.Info().Int("reports", n).Str("bucket", cfg.S3.Bucket).Msg("disk reports archived")

		select {
		case <-ctx.Done():
			log.Info().Msg("report archiving stopped")
			return
		case <-ticker.C:
		}
	}
}
