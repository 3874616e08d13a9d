package datastore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-formquery/internal/logging"
)

// streamChunk bounds the size of each IN list sent by ResolveStreams.
const streamChunk = 100

// Stream is a cached HLS playlist for a page URL.
type Stream struct {
	URL     string    `json:"url"`
	M3U8    string    `json:"m3u8"`
	Updated time.Time `json:"updated"`
}

// UpsertStream records the playlist of url, refreshing its timestamp.
func (s *Store) UpsertStream(ctx context.Context, url, m3u8 string) error {
	if url == "" || m3u8 == "" {
		return fmt.Errorf("%w: stream url and playlist are required", ErrBadArgument)
	}
	start := time.Now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	const stmt = `
	INSERT INTO m3u8 (url, m3u8, updated) VALUES (?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET m3u8 = excluded.m3u8, updated = excluded.updated`
	if _, err := s.db.ExecContext(ctx, stmt, url, m3u8, time.Now().Unix()); err != nil {
		return s.fail("upsert_stream", "m3u8["+url+"]", start, err)
	}
	return nil
}

// ResolveStreams maps each known url to its playlist. Lookups run
// concurrently in chunks; unknown urls are absent from the result.
func (s *Store) ResolveStreams(ctx context.Context, urls []string) (map[string]Stream, error) {
	unique := dedupe(urls)
	out := make(map[string]Stream, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for startIdx := 0; startIdx < len(unique); startIdx += streamChunk {
		end := startIdx + streamChunk
		if end > len(unique) {
			end = len(unique)
		}
		args := make([]any, 0, end-startIdx)
		for _, u := range unique[startIdx:end] {
			args = append(args, u)
		}

		wg.Add(1)
		go func(args []any) {
			defer wg.Done()
			rows, err := s.SelectTableWhere(ctx, "m3u8", "url", args...)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for _, row := range rows {
				st := rowStream(row)
				out[st.URL] = st
			}
		}(args)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	logging.Debug("datastore: resolved %d of %d stream urls", len(out), len(unique))
	return out, nil
}

// StaleStreams returns the urls with no playlist refreshed within maxAge,
// in input order.
func (s *Store) StaleStreams(ctx context.Context, urls []string, maxAge time.Duration) ([]string, error) {
	known, err := s.ResolveStreams(ctx, urls)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-maxAge)
	var stale []string
	for _, u := range dedupe(urls) {
		st, ok := known[u]
		if !ok || st.Updated.Before(cutoff) {
			stale = append(stale, u)
		}
	}
	return stale, nil
}

func rowStream(row Row) Stream {
	st := Stream{}
	st.URL, _ = row["url"].(string)
	st.M3U8, _ = row["m3u8"].(string)
	if ts, ok := row["updated"].(int64); ok {
		st.Updated = time.Unix(ts, 0)
	}
	return st
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
