// Package main provides a backup/restore tool for the notes and
// notifications data.
//
// Export writes a JSON snapshot to stdout (or -out); import reads one from
// stdin (or -in) and loads it into the store. The snapshot keeps notes
// grouped per candidate, so exporting, wiping, and importing yields the
// same threads in the same order.
//
// Usage:
//
//	DATA_PATH=~/talenttrack go run ./cmd/snapshot export -out backup.json
//	DATA_PATH=~/talenttrack go run ./cmd/snapshot import -in backup.json
package main

import (
	"context"
	"encoding/json/v2"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	outPath := flags.String("out", "", "Write the exported snapshot to this file (default stdout)")
	inPath := flags.String("in", "", "Read the snapshot to import from this file (default stdin)")
	_ = flags.Parse(os.Args[2:])

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/talenttrack")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := store.New(filepath.Join(dataPath, "db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	switch command {
	case "export":
		if err := runExport(ctx, st, *outPath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	case "import":
		if err := runImport(ctx, st, *inPath); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: snapshot <export|import> [-out file] [-in file]")
	os.Exit(2)
}

func runExport(ctx context.Context, st *store.Store, outPath string) error {
	snapshot, err := st.ExportSnapshot(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if _, err := out.Write(append(data, '\n')); err != nil {
		return err
	}

	notes := 0
	for _, thread := range snapshot.Notes {
		notes += len(thread.Notes)
	}
	fmt.Fprintf(os.Stderr, "Exported %d notes across %d candidates, %d notifications\n",
		notes, len(snapshot.Notes), len(snapshot.Notifications))
	return nil
}

func runImport(ctx context.Context, st *store.Store, inPath string) error {
	in := io.Reader(os.Stdin)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	// A malformed snapshot decodes to empty collections; refuse to import
	// that silently.
	snapshot, err := store.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	if err := st.ImportSnapshot(ctx, snapshot); err != nil {
		return err
	}

	notes := 0
	for _, thread := range snapshot.Notes {
		notes += len(thread.Notes)
	}
	fmt.Fprintf(os.Stderr, "Imported %d notes across %d candidates, %d notifications\n",
		notes, len(snapshot.Notes), len(snapshot.Notifications))
	return nil
}
