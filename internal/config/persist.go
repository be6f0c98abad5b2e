// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// logSettingKey pairs a TOML key with the regexp that matches its line,
// commented or not, so an update can happen in place without disturbing
// the rest of the file (surrounding comments, section order).
type logSettingKey struct {
	key     string
	pattern *regexp.Regexp
}

func logSettingKeys() []logSettingKey {
	return []logSettingKey{
		{"logLevel", regexp.MustCompile(`(?m)^#?\s*logLevel\s*=.*$`)},
		{"logPath", regexp.MustCompile(`(?m)^#?\s*logPath\s*=.*$`)},
		{"logMaxSize", regexp.MustCompile(`(?m)^#?\s*logMaxSize\s*=.*$`)},
		{"logMaxBackups", regexp.MustCompile(`(?m)^#?\s*logMaxBackups\s*=.*$`)},
	}
}

// updateLogSettingsInTOML rewrites the four log settings in content,
// in place where a commented or active key already exists, preserving
// every other line (comments, section headers, unrelated keys). Keys
// absent from content are inserted just before the first section header,
// or appended when there is none.
func updateLogSettingsInTOML(content, logLevel, logPath string, logMaxSize, logMaxBackups int) string {
	values := map[string]string{
		"logLevel":      fmt.Sprintf("logLevel = %q", logLevel),
		"logPath":       fmt.Sprintf("logPath = %q", logPath),
		"logMaxSize":    fmt.Sprintf("logMaxSize = %d", logMaxSize),
		"logMaxBackups": fmt.Sprintf("logMaxBackups = %d", logMaxBackups),
	}

	var missing []string
	for _, k := range logSettingKeys() {
		if k.pattern.MatchString(content) {
			content = k.pattern.ReplaceAllString(content, values[k.key])
		} else {
			missing = append(missing, values[k.key])
		}
	}

	if len(missing) == 0 {
		return content
	}

	insertion := strings.Join(missing, "\n") + "\n"
	if strings.HasPrefix(content, "[") {
		return insertion + content
	}
	if idx := strings.Index(content, "\n["); idx >= 0 {
		return content[:idx+1] + insertion + content[idx+1:]
	}
	return strings.TrimRight(content, "\n") + "\n" + insertion
}
