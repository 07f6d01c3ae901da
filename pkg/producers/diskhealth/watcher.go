// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package diskhealth

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

var diskPrefixes = []string{"sd", "hd", "vd", "nvme"}

// isDiskNode reports whether a device node name looks like a whole disk or an nvme controller.
func isDiskNode(name string) bool {
	for _, p := range diskPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// watchDevices signals notify whenever a disk node appears in or vanishes from dir.
func watchDevices(ctx context.Context, dir string, notify chan<- struct{}) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	log.Info().Str("dir", dir).Msg("watching for device changes")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
					continue
				}
				if !isDiskNode(filepath.Base(event.Name)) {
					continue
				}
				log.Debug().Str("event", event.String()).Msg("device change detected")
				select {
				case notify <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("device watcher error")
			}
		}
	}()
	return watcher, nil
}
