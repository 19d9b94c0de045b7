package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"bridgelog-cli/pkg/models"
)

// EENTime encodes a timestamp in the provider's fixed-width format:
// YYYYMMDDHHMMSS plus a dot and three fractional digits, 18 characters.
// The input is treated as UTC.
func EENTime(t time.Time) string {
	return t.UTC().Format("20060102150405.000000")[:18]
}

// PullLogs downloads the four log categories for one archiver of the device,
// writing one file per category under {outDir}/{esn}. Categories run
// sequentially in fixed order; a failed category is recorded in its
// CategoryResult and the pull moves on. An out-of-range archiver index is
// the caller's bug and fails fast before any request is issued.
func (c *EENClient) PullLogs(ctx context.Context, sess models.Session, device models.DeviceInfo, archiverIndex int, start, end time.Time, outDir string) ([]models.CategoryResult, error) {
	if archiverIndex < 0 || archiverIndex >= len(device.Archivers) {
		return nil, &ValidationError{Msg: fmt.Sprintf("archiver index %d out of range [0,%d)", archiverIndex, len(device.Archivers))}
	}
	archiver := device.Archivers[archiverIndex]

	deviceDir := filepath.Join(outDir, device.ESN)
	if err := os.MkdirAll(deviceDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", deviceDir, err)
	}

	startEnc := EENTime(start)
	endEnc := EENTime(end)

	results := make([]models.CategoryResult, 0, 4)
	for _, cat := range models.LogCategories() {
		results = append(results, c.pullCategory(ctx, sess, device.ESN, archiver, startEnc, endEnc, deviceDir, cat))
	}
	return results, nil
}

// pullCategory streams one category's log lines to its file. On a non-200
// status no file is created or overwritten.
func (c *EENClient) pullCategory(ctx context.Context, sess models.Session, esn, archiver, start, end, dir string, cat models.LogCategory) models.CategoryResult {
	res := models.CategoryResult{Category: cat}
	began := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, retrieveTimeout)
	defer cancel()

	resp, err := c.HTTP.R().
		SetContext(reqCtx).
		SetQueryParams(map[string]string{
			"c": esn,
			"t": start,
			"e": end,
			"q": "none",
			"l": string(cat),
		}).
		SetCookies(sessionCookies(sess)).
		SetDoNotParseResponse(true).
		Get(c.logURL(archiver))

	if err != nil {
		res.Err = &TransportError{Msg: fmt.Sprintf("%s log request failed", cat), Err: err}
		res.Elapsed = time.Since(began)
		return res
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(body, 512))
		res.Err = &TransportError{
			Msg:        fmt.Sprintf("%s logs failed with status %d: %s", cat, resp.StatusCode(), snippet(string(raw))),
			StatusCode: resp.StatusCode(),
		}
		res.Elapsed = time.Since(began)
		return res
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s_%s.log", esn, archiver, cat))
	lines, err := writeLines(path, body)
	if err != nil {
		res.Err = &TransportError{Msg: fmt.Sprintf("writing %s logs", cat), Err: err}
		res.Elapsed = time.Since(began)
		return res
	}

	res.Path = path
	res.Lines = lines
	res.Elapsed = time.Since(began)
	return res
}

// writeLines copies the stream to the file one newline-terminated line at a
// time, returning the line count.
func writeLines(path string, r io.Reader) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	scanner := bufio.NewScanner(r)
	// Archiver log lines can be long; give the scanner room.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		if _, err := w.Write(scanner.Bytes()); err != nil {
			return count, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return count, err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}

	if err := w.Flush(); err != nil {
		return count, err
	}
	return count, f.Close()
}
