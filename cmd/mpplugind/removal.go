// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"
)

func removalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "removal",
		Short: "Torrent removal engine (C1) operations",
	}
	cmd.AddCommand(removalRunOnceCommand())
	return cmd
}

func removalRunOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run-once",
		Short: "Run a single removal pass across every configured backend and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := newHost(configPath)
			if err != nil {
				return err
			}
			defer h.close()

			h.removalEngine.RunOnce(cmd.Context())
			return nil
		},
	}
}
