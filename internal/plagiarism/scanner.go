package plagiarism

import (
	"context"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// cancellation is checked every cancelCheckInterval probes
const cancelCheckInterval = 256

// Chunk is a half-open range [Start, End) of suspect-document positions.
type Chunk struct {
	Start int
	End   int
}

func (c Chunk) Empty() bool { return c.Start >= c.End }

// Partition splits [0, n) into p contiguous ranges in order. The last range
// absorbs the remainder, so ranges are empty when p > n.
func Partition(n, p int) []Chunk {
	if p <= 0 {
		p = 1
	}
	size := n / p
	chunks := make([]Chunk, p)
	for k := range chunks {
		start := k * size
		end := start + size
		if k == p-1 {
			end = n
		}
		chunks[k] = Chunk{Start: start, End: end}
	}
	return chunks
}

// chunkScan is one worker's private accumulator.
type chunkScan struct {
	chunk   Chunk
	matches []Match
	covered *roaring.Bitmap
	// next is the first probe position the worker did not take.
	next   int
	probes int
}

// visited reports whether the worker probed position p.
func (s *chunkScan) visited(p int) bool {
	if p < s.chunk.Start || p >= s.chunk.End || p >= s.next {
		return false
	}
	if !s.covered.Contains(uint32(p)) {
		return true
	}
	_, ok := s.matchAt(p)
	return ok
}

// matchAt returns the index of the worker match starting at p.
func (s *chunkScan) matchAt(p int) (int, bool) {
	k := sort.Search(len(s.matches), func(i int) bool { return s.matches[i].StartA >= p })
	return k, k < len(s.matches) && s.matches[k].StartA == p
}

// scanResult is the merged, frozen outcome of a scan.
type scanResult struct {
	matches   []Match
	coverage  *roaring.Bitmap
	histogram map[int]int
	probes    int
}

func newScanResult() *scanResult {
	return &scanResult{coverage: roaring.New(), histogram: make(map[int]int)}
}

// accept records m after checking the coverage invariants.
func (r *scanResult) accept(m Match, w int) error {
	if m.Length < w {
		return fmt.Errorf("%w: match at %d has length %d below window %d", ErrInvariantViolation, m.StartA, m.Length, w)
	}
	if claimed := rangeCardinality(r.coverage, m.StartA, m.End()); claimed > 0 {
		return fmt.Errorf("%w: match [%d,%d) overlaps %d covered tokens", ErrInvariantViolation, m.StartA, m.End(), claimed)
	}
	r.coverage.AddRange(uint64(m.StartA), uint64(m.End()))
	r.matches = append(r.matches, m)
	r.histogram[m.Length]++
	return nil
}

func rangeCardinality(b *roaring.Bitmap, start, end int) uint64 {
	if end <= start {
		return 0
	}
	n := b.Rank(uint32(end - 1))
	if start > 0 {
		n -= b.Rank(uint32(start - 1))
	}
	return n
}

// scanner runs the probe-and-extend walk over the suspect document.
type scanner struct {
	m       *matcher
	workers int
}

// scanChunk walks the probe chain from the chunk start. After a match the
// next probe is the first position past it, so the walk may leave the chunk.
func (s *scanner) scanChunk(ctx context.Context, c Chunk) (*chunkScan, error) {
	res := &chunkScan{chunk: c, covered: roaring.New()}
	n, w := len(s.m.a), s.m.window
	p := c.Start
	for p < c.End && p+w <= n {
		if res.probes%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		res.probes++
		if mt, ok := s.m.probe(p); ok {
			res.matches = append(res.matches, mt)
			res.covered.AddRange(uint64(mt.StartA), uint64(mt.End()))
			p = mt.End()
			continue
		}
		p++
	}
	res.next = p
	return res, nil
}

// scan partitions the suspect document across workers and merges their
// private results in chunk order.
func (s *scanner) scan(ctx context.Context) (*scanResult, error) {
	chunks := Partition(len(s.m.a), s.workers)
	scans := make([]*chunkScan, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for k, c := range chunks {
		if c.Empty() {
			continue
		}
		g.Go(func() error {
			res, err := s.scanChunk(gctx, c)
			if err != nil {
				return err
			}
			scans[k] = res
			log.Trace().
				Int("chunk", k).
				Int("start", c.Start).
				Int("end", c.End).
				Int("matches", len(res.matches)).
				Int("probes", res.probes).
				Msg("Chunk scanned")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	return s.merge(ctx, scans)
}

// merge replays the single-threaded probe chain over the worker results.
// Inside chunk k, once the chain reaches a position the worker also probed,
// the rest of the worker's chain is identical and is adopted wholesale.
// Positions the worker skipped (because its own walk started inside a run
// that began in an earlier chunk) are probed again here.
func (s *scanner) merge(ctx context.Context, scans []*chunkScan) (*scanResult, error) {
	out := newScanResult()
	n, w := len(s.m.a), s.m.window
	p := 0
	for k, cs := range scans {
		if cs == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		out.probes += cs.probes

		rescans := 0
		for p < cs.chunk.End && p+w <= n {
			if cs.visited(p) {
				from, _ := cs.matchAt(p)
				for _, mt := range cs.matches[from:] {
					if err := out.accept(mt, w); err != nil {
						return nil, err
					}
				}
				p = cs.next
				break
			}
			rescans++
			out.probes++
			if mt, ok := s.m.probe(p); ok {
				if err := out.accept(mt, w); err != nil {
					return nil, err
				}
				p = mt.End()
				continue
			}
			p++
		}
		if rescans > 0 {
			log.Trace().Int("chunk", k).Int("rescans", rescans).Msg("Boundary positions re-probed")
		}
	}
	return out, nil
}
