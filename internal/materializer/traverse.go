// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/materializer/listclient"
)

// frontierEntry is one pending directory to list (spec.md §3 TraversalState).
type frontierEntry struct {
	path  string
	depth int
}

// toRemoteEntry classifies one listing item into a domain.RemoteEntry
// (spec.md §3 RemoteEntry, §4.2.2 traversal).
func toRemoteEntry(baseURL, dirPath string, e listclient.Entry) domain.RemoteEntry {
	entryPath := strings.TrimRight(dirPath, "/") + "/" + e.Name

	suffix := ""
	if !e.IsDir {
		if idx := strings.LastIndexByte(e.Name, '.'); idx >= 0 {
			suffix = e.Name[idx:]
		}
	}

	downloadURL := baseURL + "/d" + entryPath
	if e.Sign != "" {
		downloadURL += "?sign=" + e.Sign
	}

	return domain.RemoteEntry{
		Path:        entryPath,
		IsDir:       e.IsDir,
		Name:        e.Name,
		Suffix:      suffix,
		DownloadURL: downloadURL,
	}
}

// filterFunc decides whether a file entry should be emitted (spec.md
// §4.2.2 traverse(..., filter_fn)).
type filterFunc func(domain.RemoteEntry) bool

func mediaOrSubtitleFilter(e domain.RemoteEntry) bool {
	return isMediaSuffix(e.Suffix) || isSubtitleSuffix(e.Suffix)
}

// Traverse walks the remote tree rooted at sourceDir, emitting RemoteEntry
// records on entries, in the order §4.2.2 mandates for mode, and closes
// entries when the walk completes (spec.md §4.2.2, §8 properties 4-5).
func Traverse(ctx context.Context, client *listclient.Client, sourceDir string, maxDepth int, mode domain.TraversalMode, listConcurrency int, filter filterFunc, entries chan<- domain.RemoteEntry) {
	defer close(entries)

	switch mode {
	case domain.TraversalDFS:
		traverseDFS(ctx, client, sourceDir, maxDepth, filter, entries)
	default:
		traverseBFS(ctx, client, sourceDir, maxDepth, listConcurrency, filter, entries)
	}
}

func listOne(ctx context.Context, client *listclient.Client, dirPath string) ([]listclient.Entry, bool) {
	items, err := client.List(ctx, dirPath)
	if err != nil {
		log.Error().Err(err).Str("path", dirPath).Msg("materializer: listing failed, pruning subtree")
		return nil, false
	}
	return items, true
}

// traverseBFS processes the frontier one level at a time, bounded by a
// semaphore of size listConcurrency (spec.md §4.2.2 "BFS").
func traverseBFS(ctx context.Context, client *listclient.Client, sourceDir string, maxDepth int, listConcurrency int, filter filterFunc, entries chan<- domain.RemoteEntry) {
	level := []frontierEntry{{path: sourceDir, depth: 0}}

	for len(level) > 0 {
		if ctx.Err() != nil {
			return
		}

		sem := make(chan struct{}, listConcurrency)
		var wg sync.WaitGroup
		var mu sync.Mutex
		var next []frontierEntry

		for _, dir := range level {
			dir := dir
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				items, ok := listOne(ctx, client, dir.path)
				if !ok {
					return
				}

				var subdirs []frontierEntry
				for _, item := range items {
					re := toRemoteEntry(client.BaseURL(), dir.path, item)
					if item.IsDir {
						if maxDepth == -1 || dir.depth+1 <= maxDepth {
							subdirs = append(subdirs, frontierEntry{path: re.Path, depth: dir.depth + 1})
						}
						continue
					}
					if filter(re) {
						select {
						case entries <- re:
						case <-ctx.Done():
							return
						}
					}
				}

				mu.Lock()
				next = append(next, subdirs...)
				mu.Unlock()
			}()
		}
		wg.Wait()
		level = next
	}
}

// traverseDFS uses a LIFO frontier; each pop lists once, emits files in
// listing order, pushes subdirectories so the latest listed is visited
// first (spec.md §4.2.2 "DFS").
func traverseDFS(ctx context.Context, client *listclient.Client, sourceDir string, maxDepth int, filter filterFunc, entries chan<- domain.RemoteEntry) {
	stack := []frontierEntry{{path: sourceDir, depth: 0}}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		items, ok := listOne(ctx, client, dir.path)
		if !ok {
			continue
		}

		var pushDirs []frontierEntry
		for _, item := range items {
			re := toRemoteEntry(client.BaseURL(), dir.path, item)
			if item.IsDir {
				if maxDepth == -1 || dir.depth+1 <= maxDepth {
					pushDirs = append(pushDirs, frontierEntry{path: re.Path, depth: dir.depth + 1})
				}
				continue
			}
			if filter(re) {
				select {
				case entries <- re:
				case <-ctx.Done():
					return
				}
			}
		}
		// Push in listing order so the last listed subdirectory is popped
		// (visited) first.
		stack = append(stack, pushDirs...)
	}
}
