// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cobaltcore-dev/smartdump/pkg/producers/config"
)

var configFilePath string

var useConfigCmd = &cobra.Command{
	Use:   "use-config",
	Short: "Start producers using configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFilePath)
		if err != nil {
			return err
		}
		if cfg.Global.NodeName == "" {
			cfg.Global.NodeName = defaultNodeName()
		}
		if cfg.Global.SmartctlPath == "" {
			cfg.Global.SmartctlPath = smartctlPath
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		supervisor := config.NewSupervisor()
		config.WatchConfig(supervisor.Reload)

		var wg sync.WaitGroup

		for _, producer := range cfg.Producers {
			wg.Add(1)
			go supervisor.StartProducers(ctx, producer, cfg.Global, &wg)
		}

		wg.Wait()
		log.Info().Msg("all producers stopped")
		return nil
	},
}

func init() {
	useConfigCmd.Flags().StringVar(&configFilePath, "config", "", "Path to configuration file")
	useConfigCmd.MarkFlagRequired("config")
}
