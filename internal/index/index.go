// Package index declares the storage contract the library's matcher
// runs against, patterned after db.DBClient in
// Prayush09-MusicRecognition/db/client.go: a narrow interface so a real
// Postgres-backed store and an in-memory fake can share one call
// surface for tests and production alike.
package index

import "context"

// Couple records where one hash landed in one song: the song's id and
// the anchor time (in window index units) the hash was recorded at.
// Named after db.models.Couple in the teacher's fingerprint store.
type Couple struct {
	SID  int64
	Time int64
}

// Index is the storage contract spec.md §4.3 describes: index a song's
// hashes, look hashes up across every indexed song, and delete a song
// and its hashes atomically.
type Index interface {
	// IndexSong persists song under a fresh song id and stores hashes
	// against it, each entry's slice position serving as its anchor
	// time. The whole operation commits as one unit (spec.md §9 Open
	// Question 4).
	IndexSong(ctx context.Context, song string, hashes []int64) (sid int64, err error)

	// Find returns every stored Couple for each requested hash, keyed
	// by hash so the matcher can walk per-hash candidate lists without
	// re-querying.
	Find(ctx context.Context, hashes []int64) (map[int64][]Couple, error)

	// Song resolves a song id back to the name it was indexed under.
	Song(ctx context.Context, sid int64) (string, error)

	// DeleteSong removes a song and its hashes (cascade), returning the
	// number of song rows removed: 0 or 1 (spec.md §4.3).
	DeleteSong(ctx context.Context, song string) (songsDeleted int, err error)

	// Close releases any resources the backend holds (connection pools
	// and the like). Safe to call on a backend that holds none.
	Close()
}
