// Package benchmark resolves processor names to single-thread benchmark
// scores used to scale instance time limits.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"irp-verifier/internal/platform/obs"
	"irp-verifier/internal/ports"
)

// DefaultBaseURL points at the public PassMark CPU mark table.
const DefaultBaseURL = "https://www.cpubenchmark.net"

// ErrUnknownProcessor is returned when the mark table has no entry for the
// requested processor.
var ErrUnknownProcessor = errors.New("processor not found in benchmark table")

// PassmarkProvider implements BenchmarkProvider against the PassMark CPU
// mark table.
//
// It coordinates:
//   - Processor name normalization
//   - Persistent mark caching
//   - Full-table fetches with retry/backoff
//
// The whole table is fetched on a cache miss and stored, so a process looks
// up at most one remote table per run no matter how many candidates it
// verifies. The provider is safe for concurrent use.
type PassmarkProvider struct {
	session *http.Client
	baseURL string
	cache   ports.MarkCache
}

// NewPassmarkProvider builds a provider. An empty baseURL selects the
// public table; markCache may be nil to disable persistence.
func NewPassmarkProvider(baseURL string, markCache ports.MarkCache) *PassmarkProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &PassmarkProvider{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   markCache,
	}
}

// Score resolves one processor name to its single-thread mark.
func (p *PassmarkProvider) Score(ctx context.Context, processor string) (_ float64, err error) {
	defer obs.Time(ctx, "passmark.Score")(&err)

	norm := NormalizeProcessor(processor)
	if norm == "" {
		return 0, errors.New("get benchmark score: processor name must be non-empty")
	}

	// Check the persistent mark cache before issuing external calls.
	if p.cache != nil {
		hits, err := p.cache.GetMany(ctx, []string{norm})
		if err != nil {
			return 0, fmt.Errorf("benchmark mark cache: %w", err)
		}
		if mark, ok := hits[norm]; ok {
			return mark, nil
		}
	}

	marks, err := p.fetchMarks(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching benchmark marks: %w", err)
	}

	if p.cache != nil && len(marks) > 0 {
		if err := p.cache.PutMany(ctx, marks); err != nil {
			log.Printf("mark cache write failed: %v", err)
		}
	}

	mark, ok := marks[norm]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProcessor, strings.TrimSpace(processor))
	}
	return mark, nil
}
