// Command soundmark is the interactive shell driving the library
// façade: add/recognize/delete/add_dir, the same four verbs
// khalzam-cli.rs registers on its shrust Shell, reimplemented as a
// bufio.Scanner read loop since the ecosystem has no direct Go
// equivalent of shrust (see DESIGN.md).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"soundmark/internal/config"
	"soundmark/internal/index"
	"soundmark/internal/index/postgres"
	"soundmark/internal/logging"
	"soundmark/library"
)

func main() {
	log := logging.New()
	ctx := context.Background()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Err(ctx, "main.Load", err)
		os.Exit(1)
	}

	idx, err := openIndex(ctx, cfg.Database)
	if err != nil {
		log.Err(ctx, "main.openIndex", err)
		os.Exit(1)
	}
	defer idx.Close()

	lib := library.New(idx)

	fmt.Println("soundmark> type a command: add <path> | recognize <path> | delete <name> | add_dir <dir> | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		arg := strings.TrimSpace(rest)

		switch verb {
		case "quit", "exit":
			return
		case "add":
			runAdd(ctx, log, lib, arg)
		case "recognize":
			runRecognize(ctx, log, lib, arg)
		case "delete":
			runDelete(ctx, log, lib, arg)
		case "add_dir":
			runAddDir(ctx, log, lib, arg)
		default:
			fmt.Printf("unknown command %q\n", verb)
		}
	}
}

// openIndex dispatches on cfg.Database.Type, the same switch
// NewDatabase runs in
// DanielCarmel-media-luna/internal/database/databse_base.go — an
// unsupported type fails loud instead of silently opening postgres.
func openIndex(ctx context.Context, db config.Database) (index.Index, error) {
	switch db.Type {
	case "postgres":
		return postgres.Open(ctx, db.URL, db.MaxConns, db.MinConns, db.MaxConnLifetime)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", db.Type)
	}
}

func runAdd(ctx context.Context, log *logging.Logger, lib *library.Library, path string) {
	if err := lib.Add(ctx, path); err != nil {
		log.Err(ctx, "cmd.add", err)
		fmt.Printf("can't add %s: %v\n", path, err)
		return
	}
	fmt.Printf("Added %s\n", filepath.Base(path))
}

func runRecognize(ctx context.Context, log *logging.Logger, lib *library.Library, path string) {
	fmt.Printf("Recognizing `%s` ...\n", path)
	result, err := lib.Recognize(ctx, path)
	if err != nil {
		log.Err(ctx, "cmd.recognize", err)
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("Best match: %s\n", result)
}

func runDelete(ctx context.Context, log *logging.Logger, lib *library.Library, songname string) {
	result, err := lib.Delete(ctx, songname)
	if err != nil {
		log.Err(ctx, "cmd.delete", err)
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(result)
}

// runAddDir fans a directory's files out across an errgroup worker
// pool, the Go equivalent of add_dir's tokio_threadpool::ThreadPool
// fan-out in khalzam-cli.rs, with a progress bar standing in for the
// original's per-file println.
func runAddDir(ctx context.Context, log *logging.Logger, lib *library.Library, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Err(ctx, "cmd.add_dir", err)
		fmt.Printf("can't read %s: %v\n", dir, err)
		return
	}

	bar := progressbar.Default(int64(len(entries)), "adding")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			defer bar.Add(1)
			if err := lib.Add(gctx, path); err != nil {
				log.Err(gctx, "cmd.add_dir", err)
				fmt.Printf("can't add %s: %v\n", entry.Name(), err)
				return nil
			}
			return nil
		})
	}

	_ = g.Wait()
}
