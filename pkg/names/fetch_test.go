package names

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadDataset(t *testing.T) {
	content := "nombre,cantidad,anio\nJuan,1,2000\n"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	if err := DownloadDataset(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("DownloadDataset: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", string(data), content)
	}
}

func TestDownloadDataset_Retry(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "retry.csv")
	if err := DownloadDataset(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("DownloadDataset with retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestOpenDataset_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	os.WriteFile(path, []byte("nombre,cantidad,anio\n"), 0o644)

	f, err := OpenDataset(path)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	f.Close()
}

func TestOpenDataset_Zip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "dataset.zip")

	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(zf)
	w, _ := zw.Create("historico-nombres.csv")
	w.Write([]byte("nombre,cantidad,anio\nJuan,1,2000\n"))
	zw.Close()
	zf.Close()

	f, err := OpenDataset(zipPath)
	if err != nil {
		t.Fatalf("OpenDataset: %v", err)
	}
	defer f.Close()

	agg, err := ReadCSV(f)
	if err != nil {
		t.Fatalf("ReadCSV from zip: %v", err)
	}
	if agg.Rows != 1 {
		t.Errorf("Rows = %d, want 1", agg.Rows)
	}
}

func TestOpenDataset_ZipWithoutCSV(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "nada.zip")

	zf, _ := os.Create(zipPath)
	zw := zip.NewWriter(zf)
	w, _ := zw.Create("readme.txt")
	w.Write([]byte("nada"))
	zw.Close()
	zf.Close()

	if _, err := OpenDataset(zipPath); err == nil {
		t.Fatal("expected error for zip without CSV")
	}
}
