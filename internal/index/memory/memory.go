// Package memory is an in-process Index fake, the kind of stand-in
// db_client_test.go in Prayush09-MusicRecognition/Test exercises its
// DBClient interface with, used here so the matcher's property tests
// run without a live Postgres instance.
package memory

import (
	"context"
	"sync"

	"soundmark/internal/errs"
	"soundmark/internal/index"
)

type song struct {
	name   string
	hashes []int64
}

// Backend is a mutex-guarded, map-backed Index.
type Backend struct {
	mu      sync.Mutex
	nextSID int64
	songs   map[int64]song
	byName  map[string]int64
	byHash  map[int64][]index.Couple
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{
		songs:  make(map[int64]song),
		byName: make(map[string]int64),
		byHash: make(map[int64][]index.Couple),
	}
}

func (b *Backend) IndexSong(_ context.Context, name string, hashes []int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.byName[name]; exists {
		return 0, errs.New(errs.KindIndex, "memory.IndexSong")
	}

	b.nextSID++
	sid := b.nextSID

	stored := make([]int64, len(hashes))
	copy(stored, hashes)
	b.songs[sid] = song{name: name, hashes: stored}
	b.byName[name] = sid

	for t, h := range hashes {
		b.byHash[h] = append(b.byHash[h], index.Couple{SID: sid, Time: int64(t)})
	}

	return sid, nil
}

func (b *Backend) Find(_ context.Context, hashes []int64) (map[int64][]index.Couple, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[int64][]index.Couple)
	for _, h := range hashes {
		if _, seen := out[h]; seen {
			continue
		}
		if couples, ok := b.byHash[h]; ok {
			out[h] = append(out[h], couples...)
		}
	}
	return out, nil
}

func (b *Backend) Song(_ context.Context, sid int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.songs[sid]
	if !ok {
		return "", errs.New(errs.KindIndex, "memory.Song")
	}
	return s.name, nil
}

// DeleteSong removes name's song row and every hash record referencing
// it, returning the number of song rows removed: 0 or 1 (spec.md §4.3),
// independent of how many hash rows the song owned.
func (b *Backend) DeleteSong(_ context.Context, name string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sid, ok := b.byName[name]
	if !ok {
		return 0, nil
	}

	s := b.songs[sid]
	delete(b.songs, sid)
	delete(b.byName, name)

	for h := range s.hashes {
		hash := s.hashes[h]
		kept := b.byHash[hash][:0]
		for _, c := range b.byHash[hash] {
			if c.SID == sid {
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(b.byHash, hash)
		} else {
			b.byHash[hash] = kept
		}
	}

	return 1, nil
}

// Close is a no-op: the fake holds no external resources.
func (b *Backend) Close() {}
