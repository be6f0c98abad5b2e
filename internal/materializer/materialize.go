// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/materializer/listclient"
)

// shortcutBody returns the text written into a shortcut file (spec.md
// §4.2.3 "Shortcut writer"): the download URL, or the url_replace rewrite
// of its "<base>/d" prefix when configured.
func shortcutBody(baseURL, urlReplace, downloadURL string) string {
	if urlReplace == "" {
		return downloadURL
	}
	prefix := baseURL + "/d"
	if strings.HasPrefix(downloadURL, prefix) {
		return urlReplace + strings.TrimPrefix(downloadURL, prefix)
	}
	return downloadURL
}

// writeShortcut ensures target's parent directory exists and writes body,
// overwriting any existing file (spec.md §4.2.3).
func writeShortcut(target, body string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("materialize: mkdir %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		return fmt.Errorf("materialize: write shortcut %s: %w", target, err)
	}
	return nil
}

// downloadSubtitle streams entry's bytes to target (spec.md §4.2.3
// "Subtitle downloader").
func downloadSubtitle(ctx context.Context, client *listclient.Client, entry domain.RemoteEntry, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("materialize: mkdir %s: %w", filepath.Dir(target), err)
	}

	resp, err := client.Get(ctx, entry.DownloadURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("materialize: create %s: %w", target, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("materialize: download %s: %w", entry.DownloadURL, err)
	}
	return nil
}

// Pass runs one materializer pass end to end: traversal feeds two worker
// pools (shortcut, subtitle), GC sweeps after both drain when sync_remote
// is set (spec.md §4.2.2-§4.2.4, §5 "C2").
type Pass struct {
	client *listclient.Client
	cfg    domain.MaterializerConfig
	filter GCFilter // nil when sync_remote is false

	targets *memoTargetPath

	mu        sync.Mutex
	processed map[string]bool
}

// NewPass builds one materializer pass.
func NewPass(client *listclient.Client, cfg domain.MaterializerConfig, filter GCFilter) *Pass {
	return &Pass{
		client:    client,
		cfg:       cfg,
		filter:    filter,
		targets:   newMemoTargetPath(cfg.SourceDir, cfg.PathReplace, cfg.TargetDir),
		processed: make(map[string]bool),
	}
}

// Run executes one full pass (spec.md §4.2.1 run_once).
func (p *Pass) Run(ctx context.Context) error {
	entries := make(chan domain.RemoteEntry, p.cfg.MaxListWorker*4)

	go Traverse(ctx, p.client, p.cfg.SourceDir, p.cfg.MaxDepth, p.cfg.TraversalMode, p.cfg.MaxListWorker, mediaOrSubtitleFilter, entries)

	shortcuts := make(chan domain.RemoteEntry, 64)
	subtitles := make(chan domain.RemoteEntry, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(shortcuts)
		defer close(subtitles)
		for e := range entries {
			if isMediaSuffix(e.Suffix) {
				shortcuts <- e
			} else if isSubtitleSuffix(e.Suffix) {
				subtitles <- e
			}
		}
	}()

	var consumers sync.WaitGroup
	consumers.Add(1)
	go func() {
		defer consumers.Done()
		p.consumeShortcuts(shortcuts)
	}()

	consumers.Add(1)
	go func() {
		defer consumers.Done()
		p.consumeSubtitles(ctx, subtitles)
	}()

	wg.Wait()
	consumers.Wait()

	if p.cfg.SyncRemote && p.filter != nil {
		p.mu.Lock()
		processed := make(map[string]bool, len(p.processed))
		for k, v := range p.processed {
			processed[k] = v
		}
		p.mu.Unlock()
		p.filter.Sweep(processed)
	}

	log.Info().Str("source", p.cfg.SourceDir).Msg("materializer: pass complete")
	return nil
}

func (p *Pass) markProcessed(target string) {
	p.mu.Lock()
	p.processed[target] = true
	p.mu.Unlock()
	if p.filter != nil {
		p.filter.Add(target)
	}
}

func (p *Pass) consumeShortcuts(shortcuts <-chan domain.RemoteEntry) {
	for e := range shortcuts {
		target := p.targets.compute(e.Path, e.Suffix)
		body := shortcutBody(p.client.BaseURL(), p.cfg.URLReplace, e.DownloadURL)
		if err := writeShortcut(target, body); err != nil {
			log.Error().Err(err).Str("entry", e.Path).Msg("materializer: shortcut write failed")
			continue
		}
		p.markProcessed(target)
	}
	log.Debug().Msg("materializer: shortcut queue drained")
}

func (p *Pass) consumeSubtitles(ctx context.Context, subtitles <-chan domain.RemoteEntry) {
	sem := make(chan struct{}, p.cfg.MaxDownloadWorker)
	var wg sync.WaitGroup
	for e := range subtitles {
		e := e
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			target := p.targets.compute(e.Path, e.Suffix)
			if err := downloadSubtitle(ctx, p.client, e, target); err != nil {
				log.Error().Err(err).Str("entry", e.Path).Msg("materializer: subtitle download failed")
				return
			}
			p.markProcessed(target)
		}()
	}
	wg.Wait()
	log.Debug().Msg("materializer: subtitle queue drained")
}
