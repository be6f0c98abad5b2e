// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package domain holds the types shared by every plugin and by the host
// harness: configuration, the normalized torrent record and the remote
// tree entry.
package domain

// HostConfig is the top-level, persisted configuration for the plugin
// host. It embeds one block per plugin; an absent block leaves that
// plugin disabled.
type HostConfig struct {
	Host        string `toml:"host" mapstructure:"host"`
	BaseURL     string `toml:"baseUrl" mapstructure:"baseUrl"`
	DataDir     string `toml:"dataDir" mapstructure:"dataDir"`
	LogLevel    string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath     string `toml:"logPath" mapstructure:"logPath"`
	MetricsHost string `toml:"metricsHost" mapstructure:"metricsHost"`

	Port          int `toml:"port" mapstructure:"port"`
	LogMaxSize    int `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int `toml:"logMaxBackups" mapstructure:"logMaxBackups"`
	MetricsPort   int `toml:"metricsPort" mapstructure:"metricsPort"`

	MetricsEnabled bool `toml:"metricsEnabled" mapstructure:"metricsEnabled"`

	Removal      RemovalConfig            `toml:"removal" mapstructure:"removal"`
	Materializer MaterializerConfig       `toml:"materializer" mapstructure:"materializer"`
	Backends     map[string]BackendConfig `toml:"backends" mapstructure:"backends"`
}

// BackendKind selects the downloader protocol a BackendConfig dials.
type BackendKind string

const (
	BackendKindQbittorrent  BackendKind = "qbittorrent"
	BackendKindTransmission BackendKind = "transmission"
)

// BackendConfig is one entry of the host's downloaders table, keyed by
// the name referenced from RemovalConfig.Downloaders (spec.md §4.3,
// "domain.BackendConfig (host/user/pass or RPC URL/token)").
type BackendConfig struct {
	Kind     BackendKind `toml:"kind" mapstructure:"kind"`
	Host     string      `toml:"host" mapstructure:"host"`
	Username string      `toml:"username" mapstructure:"username"`
	Password string      `toml:"password" mapstructure:"password"`
}

// Action is the disposition applied to a selected torrent (spec.md §4.1.3).
type Action string

const (
	ActionPause      Action = "pause"
	ActionDelete     Action = "delete"
	ActionDeleteFile Action = "deletefile"
)

// Connection is the boolean connector joining condition predicates.
type Connection string

const (
	ConnectionAnd Connection = "and"
	ConnectionOr  Connection = "or"
)

// RemoveMode selects between the condition evaluator and a sorted-walk strategy.
type RemoveMode string

const (
	RemoveModeCondition RemoveMode = "condition"
	RemoveModeStrategy  RemoveMode = "strategy"
)

// Strategy names a sorted-walk removal strategy (spec.md §4.1.2).
type Strategy string

const (
	StrategyFreeSpace         Strategy = "freespace"
	StrategyMaximumCountSeeds Strategy = "maximum_count_seeds"
	StrategyMaximumSizeSeeds  Strategy = "maximum_size_seeds"
)

// StrategyAction picks the sort key used ahead of a strategy walk.
type StrategyAction string

const (
	StrategyActionOldSeeds      StrategyAction = "old_seeds"
	StrategyActionSmallSeeds    StrategyAction = "small_seeds"
	StrategyActionInactiveSeeds StrategyAction = "inactive_seeds"
)

// RemovalConfig is the persisted configuration surface for the removal
// engine (C1), spec.md §6.
type RemovalConfig struct {
	Downloaders []string `toml:"downloaders" mapstructure:"downloaders"`
	Labels      []string `toml:"labels" mapstructure:"labels"`

	Size                string         `toml:"size" mapstructure:"size"`
	Ratio               string         `toml:"ratio" mapstructure:"ratio"`
	Time                string         `toml:"time" mapstructure:"time"`
	Upspeed             string         `toml:"upspeed" mapstructure:"upspeed"`
	PathKeywords        string         `toml:"pathkeywords" mapstructure:"pathkeywords"`
	TrackerKeywords     string         `toml:"trackerkeywords" mapstructure:"trackerkeywords"`
	ErrorKeywords       string         `toml:"errorkeywords" mapstructure:"errorkeywords"`
	TorrentStates       string         `toml:"torrentstates" mapstructure:"torrentstates"`
	TorrentCategorys    string         `toml:"torrentcategorys" mapstructure:"torrentcategorys"`
	FreeSpaceDetectPath string         `toml:"freespace_detect_path" mapstructure:"freespace_detect_path"`
	Cron                string         `toml:"cron" mapstructure:"cron"`
	Action              Action         `toml:"action" mapstructure:"action"`
	Connection          Connection     `toml:"connection" mapstructure:"connection"`
	RemoveMode          RemoveMode     `toml:"remove_mode" mapstructure:"remove_mode"`
	Strategy            Strategy       `toml:"strategy" mapstructure:"strategy"`
	StrategyAction      StrategyAction `toml:"strategy_action" mapstructure:"strategy_action"`
	StrategyValue       float64        `toml:"strategy_value" mapstructure:"strategy_value"`

	Enabled                      bool `toml:"enabled" mapstructure:"enabled"`
	Notify                       bool `toml:"notify" mapstructure:"notify"`
	OnlyOnce                     bool `toml:"onlyonce" mapstructure:"onlyonce"`
	SameData                     bool `toml:"samedata" mapstructure:"samedata"`
	MPOnly                       bool `toml:"mponly" mapstructure:"mponly"`
	StrategyPreFilterByCondition bool `toml:"strategy_pre_filter_by_condition" mapstructure:"strategy_pre_filter_by_condition"`
	CompleteOnly                 bool `toml:"complateonly" mapstructure:"complateonly"`
	MonitorDownload              bool `toml:"monitor_download" mapstructure:"monitor_download"`
	PreRelease                   bool `toml:"pre_release" mapstructure:"pre_release"`
}

// TraversalMode picks breadth- or depth-first traversal for the materializer.
type TraversalMode string

const (
	TraversalBFS TraversalMode = "bfs"
	TraversalDFS TraversalMode = "dfs"
)

// FilterMode selects the GC membership structure (spec.md §4.2.4).
type FilterMode string

const (
	FilterModeSet   FilterMode = "set"
	FilterModeIO    FilterMode = "io"
	FilterModeBloom FilterMode = "bf"
)

// MaterializerConfig is the persisted configuration surface for the
// remote tree materializer (C2), spec.md §6.
type MaterializerConfig struct {
	URL         string `toml:"url" mapstructure:"url"`
	Token       string `toml:"token" mapstructure:"token"`
	SourceDir   string `toml:"source_dir" mapstructure:"source_dir"`
	TargetDir   string `toml:"target_dir" mapstructure:"target_dir"`
	PathReplace string `toml:"path_replace" mapstructure:"path_replace"`
	URLReplace  string `toml:"url_replace" mapstructure:"url_replace"`
	Cron        string `toml:"cron" mapstructure:"cron"`

	TraversalMode TraversalMode `toml:"traversal_mode" mapstructure:"traversal_mode"`
	FilterMode    FilterMode    `toml:"filter_mode" mapstructure:"filter_mode"`

	MaxDepth          int `toml:"max_depth" mapstructure:"max_depth"`
	MaxListWorker     int `toml:"max_list_worker" mapstructure:"max_list_worker"`
	MaxDownloadWorker int `toml:"max_download_worker" mapstructure:"max_download_worker"`

	Enabled    bool `toml:"enabled" mapstructure:"enabled"`
	OnlyOnce   bool `toml:"onlyonce" mapstructure:"onlyonce"`
	SyncRemote bool `toml:"sync_remote" mapstructure:"sync_remote"`
}

// MediaSuffixes and SubtitleSuffixes classify remote files for C2 (spec.md §4.2.3).
var (
	MediaSuffixes = []string{
		".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".ts", ".m2ts", ".webm", ".rmvb", ".rm", ".iso",
	}
	SubtitleSuffixes = []string{
		".srt", ".ass", ".ssa", ".sub", ".vtt",
	}
)
