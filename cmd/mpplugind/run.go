// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"
)

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the host harness: serves the downloader-API/metrics HTTP surface and the plugins' cron jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := newHost(configPath)
			if err != nil {
				return err
			}
			defer h.close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			h.subscribe(ctx, h.removalEngine)
			h.subscribe(ctx, h.fontsubset)

			return h.serve(ctx)
		},
	}
}
