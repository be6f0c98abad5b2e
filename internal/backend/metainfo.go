// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package backend

import (
	"bytes"
	"fmt"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/zeebo/bencode"
)

// TorrentMeta is the static metadata read out of a .torrent file or
// magnet-resolved metainfo blob: name, total size and infohash. Nothing
// here dials peers or speaks the BitTorrent wire protocol — that is an
// explicit Non-goal (spec.md §1) — it only decodes the on-disk bencode
// format, the same way the teacher's client-migration code reads
// another client's resume/fastresume data without running the protocol.
type TorrentMeta struct {
	Name     string
	Size     int64
	InfoHash string
}

// ParseTorrentMetaInfo decodes a raw .torrent file, used by the
// downloader-API plugin (spec.md §6) to label a torrent it just added
// before the assigned hash is known from the backend.
func ParseTorrentMetaInfo(b []byte) (TorrentMeta, error) {
	mi, err := metainfo.Load(bytes.NewReader(b))
	if err != nil {
		return fallbackBencodeMeta(b)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return fallbackBencodeMeta(b)
	}
	return TorrentMeta{
		Name:     info.Name,
		Size:     info.TotalLength(),
		InfoHash: mi.HashInfoBytes().HexString(),
	}, nil
}

// bencodeInfoOnly is used when metainfo.Load fails on a partial or
// non-standard bencode blob (e.g. a magnet-resolved info dict fetched
// separately); it reads just enough to label the torrent.
type bencodeInfoOnly struct {
	Info struct {
		Name        string `bencode:"name"`
		Length      int64  `bencode:"length"`
		PieceLength int64  `bencode:"piece length"`
		Files       []struct {
			Length int64 `bencode:"length"`
		} `bencode:"files"`
	} `bencode:"info"`
}

func fallbackBencodeMeta(b []byte) (TorrentMeta, error) {
	var raw bencodeInfoOnly
	if err := bencode.DecodeBytes(b, &raw); err != nil {
		return TorrentMeta{}, fmt.Errorf("decode torrent metainfo: %w", err)
	}
	size := raw.Info.Length
	for _, f := range raw.Info.Files {
		size += f.Length
	}
	return TorrentMeta{Name: raw.Info.Name, Size: size}, nil
}
