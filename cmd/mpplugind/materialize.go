// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"
)

func materializeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Remote tree shortcut materializer (C2) operations",
	}
	cmd.AddCommand(materializeRunOnceCommand())
	return cmd
}

func materializeRunOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run-once",
		Short: "Run a single traverse+materialize+GC pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := newHost(configPath)
			if err != nil {
				return err
			}
			defer h.close()

			h.materializer.RunOnce(cmd.Context())
			return nil
		},
	}
}
