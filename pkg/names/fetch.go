package names

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DownloadDataset downloads url to dest with retries and timeout. The
// historico-nombres dump is a few hundred MB, hence the generous timeout.
func DownloadDataset(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 30 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}

		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

// OpenDataset opens a dataset file for reading. A .zip archive is extracted
// to a temp dir first and the first CSV inside is used.
func OpenDataset(path string) (io.ReadCloser, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		return f, nil
	}

	dir, err := os.MkdirTemp("", "nombres-dataset-")
	if err != nil {
		return nil, err
	}
	files, err := unzipFile(path, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("unzip dataset: %w", err)
	}
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".csv") {
			rc, err := os.Open(f)
			if err != nil {
				os.RemoveAll(dir)
				return nil, err
			}
			return &tempReader{ReadCloser: rc, dir: dir}, nil
		}
	}
	os.RemoveAll(dir)
	return nil, fmt.Errorf("no CSV found in %s", path)
}

// tempReader removes the extraction dir when the CSV is closed.
type tempReader struct {
	io.ReadCloser
	dir string
}

func (t *tempReader) Close() error {
	err := t.ReadCloser.Close()
	os.RemoveAll(t.dir)
	return err
}

// unzipFile extracts a ZIP archive to destDir and returns the list of extracted file paths.
func unzipFile(src, destDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var paths []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		out, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		rc.Close()
		out.Close()
		paths = append(paths, destPath)
	}
	return paths, nil
}
