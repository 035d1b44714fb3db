// Package httpcache caches successful GET responses in a SQLite table for a
// fixed TTL, standing in front of the forecast provider so repeated lookups
// within the hour reuse the same payload.
package httpcache

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	_ "modernc.org/sqlite"
)

// Transport is an http.RoundTripper backed by a SQLite table. Cache failures
// are soft: a broken cache degrades to pass-through, never to a failed
// request.
type Transport struct {
	path string
	ttl  time.Duration
	next http.RoundTripper
	now  func() time.Time
}

// New creates a caching transport over the SQLite file at path. A nil next
// falls back to http.DefaultTransport.
func New(path string, ttl time.Duration, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{path: path, ttl: ttl, next: next, now: time.Now}
}

// RoundTrip serves cached bodies for fresh GET entries and stores successful
// responses on a miss.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.ttl <= 0 {
		return t.next.RoundTrip(req)
	}

	key := req.URL.String()
	if body, ok := t.get(key); ok {
		return &http.Response{
			Status:        "200 OK",
			StatusCode:    http.StatusOK,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        http.Header{"Content-Type": []string{"application/json"}},
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: int64(len(body)),
			Request:       req,
		}, nil
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	t.put(key, body)

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// PruneExpired deletes entries older than the TTL. Run periodically by the
// maintenance scheduler.
func (t *Transport) PruneExpired() error {
	db, err := t.open()
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := t.now().Add(-t.ttl).Unix()
	if _, err := db.Exec("DELETE FROM http_cache WHERE fetched_at <= ?", cutoff); err != nil {
		return fmt.Errorf("prune http_cache: %w", err)
	}
	return nil
}

func (t *Transport) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", t.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS http_cache (
			url TEXT PRIMARY KEY,
			body BLOB,
			fetched_at INTEGER
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create http_cache: %w", err)
	}
	return db, nil
}

func (t *Transport) get(key string) ([]byte, bool) {
	db, err := t.open()
	if err != nil {
		log.Printf("httpcache: %v", err)
		return nil, false
	}
	defer db.Close()

	var body []byte
	var fetchedAt int64
	err = db.QueryRow("SELECT body, fetched_at FROM http_cache WHERE url = ?", key).Scan(&body, &fetchedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("httpcache: read failed: %v", err)
		}
		return nil, false
	}

	if t.now().Sub(time.Unix(fetchedAt, 0)) >= t.ttl {
		return nil, false
	}
	return body, true
}

func (t *Transport) put(key string, body []byte) {
	db, err := t.open()
	if err != nil {
		log.Printf("httpcache: %v", err)
		return
	}
	defer db.Close()

	if _, err := db.Exec(
		"INSERT OR REPLACE INTO http_cache (url, body, fetched_at) VALUES (?, ?, ?)",
		key, body, t.now().Unix(),
	); err != nil {
		log.Printf("httpcache: write failed: %v", err)
	}
}
