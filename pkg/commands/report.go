// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/report"
	"github.com/cobaltcore-dev/smartdump/pkg/smart"
)

var newUploader = func(ctx context.Context, cfg report.S3Config) (report.Uploader, error) {
	return report.NewS3Uploader(ctx, cfg)
}

var (
	reportNodeName string
	reportS3       report.S3Config
)

var reportCmd = &cobra.Command{
	Use:   "report <device>",
	Short: "Write a JSON health report of a disk to stdout or an S3 bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mergeS3ConfigWithEnv(reportS3)
		nodeName := getEnv("NODE_NAME", reportNodeName)
		if nodeName == "" {
			nodeName = defaultNodeName()
		}

		d := smart.NewDisk(args[0], newBackend())
		defer closeDisk(d)

		r, err := report.Build(cmd.Context(), d, nodeName)
		if err != nil {
			return err
		}

		if cfg.Bucket == "" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		up, err := newUploader(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		key, err := up.Upload(cmd.Context(), r)
		if err != nil {
			return err
		}
		log.Info().Str("device", args[0]).Str("key", key).Msg("report archived")
		fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", cfg.Bucket, key)
		return nil
	},
}

func mergeS3ConfigWithEnv(cfg report.S3Config) report.S3Config {
	cfg.Bucket = getEnv("S3_BUCKET", cfg.Bucket)
	cfg.Prefix = getEnv("S3_PREFIX", cfg.Prefix)
	cfg.Endpoint = getEnv("S3_ENDPOINT", cfg.Endpoint)
	cfg.Region = getEnv("S3_REGION", cfg.Region)
	cfg.AccessKey = getEnv("S3_ACCESS_KEY", cfg.AccessKey)
	cfg.SecretKey = getEnv("S3_SECRET_KEY", cfg.SecretKey)
	return cfg
}

func init() {
	reportCmd.Flags().StringVar(&reportNodeName, "node-name", "", "Node name recorded in the report (defaults to the hostname)")
	reportCmd.Flags().StringVar(&reportS3.Bucket, "s3-bucket", "", "Upload the report to this bucket instead of printing it")
	reportCmd.Flags().StringVar(&reportS3.Prefix, "s3-prefix", "", "Object key prefix")
	reportCmd.Flags().StringVar(&reportS3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL, e.g. a RadosGW")
	reportCmd.Flags().StringVar(&reportS3.Region, "s3-region", "", "S3 region")
	reportCmd.Flags().StringVar(&reportS3.AccessKey, "access-key", "", "S3 access key")
	reportCmd.Flags().StringVar(&reportS3.SecretKey, "secret-key", "", "S3 secret key")
}
