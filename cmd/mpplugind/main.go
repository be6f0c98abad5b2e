// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "mpplugind",
		Short: "Standalone host harness for the torrent-removal and remote-tree-materializer plugins",
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the host's TOML config file")

	root.AddCommand(runCommand())
	root.AddCommand(removalCommand())
	root.AddCommand(materializeCommand())
	root.AddCommand(versionCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("mpplugind: command failed")
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mpplugins.toml"
	}
	return dir + "/mpplugins/config.toml"
}
