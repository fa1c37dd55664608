// CLAUDE:SUMMARY CLI subcommand that rebuilds the name index from the historico-nombres CSV (local file or download).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/store"
)

func cmdIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	input := fs.String("input", "historico-nombres.csv", "dataset path (.csv or .zip)")
	url := fs.String("url", "", "download the dataset from this URL first")
	dbPath := fs.String("db", "nombres.db", "SQLite database path")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	path := *input
	if *url != "" {
		dest := filepath.Join(os.TempDir(), filepath.Base(*url))
		fmt.Printf("Descargando %s...\n", *url)
		if err := names.DownloadDataset(ctx, *url, dest); err != nil {
			fmt.Fprintf(os.Stderr, "Error de descarga: %v\n", err)
			os.Exit(1)
		}
		defer os.Remove(dest)
		path = dest
	}

	f, err := names.OpenDataset(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Procesando %s...\n", path)
	started := time.Now()

	agg, err := names.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error en el dataset: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error abriendo %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.CommitSnapshot(ctx, path, agg); err != nil {
		fmt.Fprintf(os.Stderr, "Error escribiendo el índice: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %d filas, %d nombres únicos en %s\n",
		agg.Rows, agg.Names(), time.Since(started).Round(time.Second))
}
