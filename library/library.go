// Package library is the Matcher / façade component of spec.md §4.4: it
// validates input, drives Decoder → Fingerprinter → Index on add and
// recognize, and runs the time-offset-histogram algorithm to pick a
// winner on recognize. The three-verb surface (add/recognize/delete)
// and the "Song not found" / "No matchings" reply strings follow
// MusicLibrary::add/recognize/delete in
// original_source/src/lib.rs, reimplemented against the Index
// interface instead of a generic Repository trait.
package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"soundmark/internal/decode"
	"soundmark/internal/errs"
	"soundmark/internal/fingerprint"
	"soundmark/internal/index"
)

const wantExtension = "mp3"

// Library is the façade over one Index backend.
type Library struct {
	Index index.Index
}

// New wraps an Index behind the façade.
func New(idx index.Index) *Library {
	return &Library{Index: idx}
}

// Add decodes, fingerprints, and indexes path under the name derived
// from its basename (spec.md §4.5).
func (l *Library) Add(ctx context.Context, path string) error {
	song, err := songName(path)
	if err != nil {
		return err
	}

	mono, err := decode.Decode(path)
	if err != nil {
		return err
	}

	hashes := fingerprint.Fingerprint(mono)

	if _, err := l.Index.IndexSong(ctx, song, hashes); err != nil {
		return err
	}
	return nil
}

// Recognize decodes and fingerprints path, then returns either the
// literal "No matchings" or a "{song} ({pct}% matched)" description.
func (l *Library) Recognize(ctx context.Context, path string) (string, error) {
	if _, err := songName(path); err != nil {
		return "", err
	}

	mono, err := decode.Decode(path)
	if err != nil {
		return "", err
	}

	hashes := fingerprint.Fingerprint(mono)

	match, err := l.find(ctx, hashes)
	if err != nil {
		return "", err
	}
	if match == nil {
		return "No matchings", nil
	}
	return match.Description, nil
}

// Delete removes songname and its hashes, returning the status string
// spec.md §4.4 specifies: when a song row was removed it reports
// "Successfully deleted" (however many hashes the song had); an unknown
// name reports "Song not found".
func (l *Library) Delete(ctx context.Context, songname string) (string, error) {
	n, err := l.Index.DeleteSong(ctx, songname)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "Successfully deleted", nil
	}
	return "Song not found", nil
}

// Match is the result of a successful Recognize lookup.
type Match struct {
	SID         int64
	Song        string
	Similarity  int
	Description string
}

// offsetTable is cnt[sid] from spec.md §4.4: the best coincidence count
// at any single time offset, plus the per-offset counts that produced it.
type offsetTable struct {
	absoluteBest  int
	timedeltaBest map[int64]int
}

// find runs the matching algorithm over query hashes against every
// stored coincidence the Index reports.
func (l *Library) find(ctx context.Context, query []int64) (*Match, error) {
	n := len(query)
	if n == 0 {
		return nil, nil
	}

	couples, err := l.Index.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	cnt := make(map[int64]*offsetTable)

	for t, q := range query {
		for _, c := range couples[q] {
			table, ok := cnt[c.SID]
			if !ok {
				table = &offsetTable{timedeltaBest: make(map[int64]int)}
				cnt[c.SID] = table
			}
			delta := c.Time - int64(t)
			table.timedeltaBest[delta]++
			if table.timedeltaBest[delta] > table.absoluteBest {
				table.absoluteBest = table.timedeltaBest[delta]
			}
		}
	}

	if len(cnt) == 0 {
		return nil, nil
	}

	sids := make([]int64, 0, len(cnt))
	for sid := range cnt {
		sids = append(sids, sid)
	}
	sort.Slice(sids, func(i, j int) bool {
		bi, bj := cnt[sids[i]].absoluteBest, cnt[sids[j]].absoluteBest
		if bi != bj {
			return bi > bj
		}
		// Ties break by ascending sid for reproducibility (spec.md §9
		// Open Question 1); the source leaves tie order unspecified.
		return sids[i] < sids[j]
	})

	leader := sids[0]
	best := cnt[leader].absoluteBest

	song, err := l.Index.Song(ctx, leader)
	if err != nil {
		return nil, err
	}

	similarity := (100 * best) / n

	return &Match{
		SID:         leader,
		Song:        song,
		Similarity:  similarity,
		Description: fmt.Sprintf("%s (%d%% matched)", song, similarity),
	}, nil
}

// songName extracts the basename-minus-extension song identity and
// validates the literal "mp3" extension, both per spec.md §4.5.
func songName(path string) (string, error) {
	ext := filepath.Ext(path)
	if strings.TrimPrefix(ext, ".") != wantExtension {
		return "", errs.New(errs.KindInvalidExtension, "library.songName")
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		return "", errs.New(errs.KindInvalidPath, "library.songName")
	}
	return name, nil
}
