// Package postgres is the relational Index backend spec.md §4.3 asks
// for, built on pgxpool.Pool rather than database/sql — the native pgx
// pool gives the bounded-connection-pool requirement of spec.md §5 a
// purpose-built implementation instead of database/sql's generic one.
// Table layout, batched insert, and ANY($1) lookup are grounded on
// Prayush09-MusicRecognition/db/postgres.go (createPostgresTables,
// StoreFingerprints, GetCouples), adapted to the songs(sid,song) /
// hashes(hid,hash,time,sid) schema spec.md §4.3 and §6 mandate.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"soundmark/internal/errs"
	"soundmark/internal/index"
)

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	sid  INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	song TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS hashes (
	hid  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	hash BIGINT NOT NULL,
	time INTEGER NOT NULL,
	sid  INTEGER NOT NULL REFERENCES songs(sid) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_hashes_hash ON hashes (hash);
`

// batchSize bounds how many hash rows go into one multi-row insert
// statement, the same batching strategy StoreFingerprints uses to keep
// a single statement from growing unbounded on a large fingerprint.
const batchSize = 20000

// Backend is a pgxpool-backed Index.
type Backend struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, applies the connection-pool bounds, and
// ensures the schema exists.
func Open(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLifetime time.Duration) (*Backend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.KindIndex, "postgres.Open", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.KindIndex, "postgres.Open", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.KindIndex, "postgres.Open", fmt.Errorf("creating schema: %w", err))
	}

	return &Backend{pool: pool}, nil
}

// Close releases the pool.
func (b *Backend) Close() {
	b.pool.Close()
}

// IndexSong wraps the song insert and every hash insert in a single
// transaction, satisfying spec.md §5's atomic-visibility requirement
// for a song's hash records.
func (b *Backend) IndexSong(ctx context.Context, song string, hashes []int64) (int64, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return 0, errs.Wrap(errs.KindIndex, "postgres.IndexSong", err)
	}
	defer tx.Rollback(ctx)

	var sid int64
	if err := tx.QueryRow(ctx, `INSERT INTO songs (song) VALUES ($1) RETURNING sid`, song).Scan(&sid); err != nil {
		return 0, errs.Wrap(errs.KindIndex, "postgres.IndexSong", err)
	}

	for start := 0; start < len(hashes); start += batchSize {
		end := start + batchSize
		if end > len(hashes) {
			end = len(hashes)
		}
		if err := insertHashBatch(ctx, tx, sid, hashes[start:end], start); err != nil {
			return 0, errs.Wrap(errs.KindIndex, "postgres.IndexSong", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errs.Wrap(errs.KindIndex, "postgres.IndexSong", err)
	}
	return sid, nil
}

// insertHashBatch builds one multi-row INSERT for a slice of hashes,
// the same value-string-joining approach StoreFingerprints uses to
// keep a whole batch in a single round trip. timeOffset is the
// 0-based position of hashes[0] within the song's full hash sequence.
func insertHashBatch(ctx context.Context, tx pgx.Tx, sid int64, hashes []int64, timeOffset int) error {
	valueStrings := make([]string, 0, len(hashes))
	args := make([]any, 0, len(hashes)*3)
	p := 1
	for i, h := range hashes {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", p, p+1, p+2))
		args = append(args, h, timeOffset+i, sid)
		p += 3
	}

	query := fmt.Sprintf(`INSERT INTO hashes (hash, time, sid) VALUES %s`, strings.Join(valueStrings, ","))
	_, err := tx.Exec(ctx, query, args...)
	return err
}

// Song resolves a song id back to its name.
func (b *Backend) Song(ctx context.Context, sid int64) (string, error) {
	var song string
	err := b.pool.QueryRow(ctx, `SELECT song FROM songs WHERE sid = $1`, sid).Scan(&song)
	if err != nil {
		return "", errs.Wrap(errs.KindIndex, "postgres.Song", err)
	}
	return song, nil
}

// Find looks up every stored Couple for each requested hash via a
// single ANY($1) query, the same batched-lookup shape GetCouples uses.
func (b *Backend) Find(ctx context.Context, hashes []int64) (map[int64][]index.Couple, error) {
	out := make(map[int64][]index.Couple)
	if len(hashes) == 0 {
		return out, nil
	}

	rows, err := b.pool.Query(ctx, `SELECT hash, time, sid FROM hashes WHERE hash = ANY($1)`, hashes)
	if err != nil {
		return nil, errs.Wrap(errs.KindIndex, "postgres.Find", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash, t, sid int64
		if err := rows.Scan(&hash, &t, &sid); err != nil {
			return nil, errs.Wrap(errs.KindIndex, "postgres.Find", err)
		}
		out[hash] = append(out[hash], index.Couple{SID: sid, Time: t})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindIndex, "postgres.Find", err)
	}
	return out, nil
}

// DeleteSong removes the song row; ON DELETE CASCADE takes its hash
// rows with it, matching DeleteSongByID's single-statement delete. The
// return value is the number of song rows removed (0 or 1), per
// spec.md §4.3 — independent of how many hash rows the song owned.
func (b *Backend) DeleteSong(ctx context.Context, song string) (int, error) {
	tag, err := b.pool.Exec(ctx, `DELETE FROM songs WHERE song = $1`, song)
	if err != nil {
		return 0, errs.Wrap(errs.KindIndex, "postgres.DeleteSong", err)
	}
	return int(tag.RowsAffected()), nil
}
