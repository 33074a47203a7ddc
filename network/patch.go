// SPDX-License-Identifier: MIT

package network

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvquant/matrix"
)

// Patch summarizes one link insertion.
type Patch struct {
	// Improved is the number of (i,j) pairs whose shortest time dropped.
	Improved int
	// Saved is Σ (old − new) over the improved pairs, in matrix units.
	Saved float64
}

// Add accumulates another patch.
func (p Patch) Add(q Patch) Patch {
	return Patch{Improved: p.Improved + q.Improved, Saved: p.Saved + q.Saved}
}

// ApplyLinkInsertion updates the all-pairs shortest-time matrix dis in place
// after inserting a directed link o→d of the given cost.
//
// For every pair (i,j) the candidate dis[i,o] + cost + dis[d,j] replaces
// dis[i,j] when strictly shorter. One O(N²) pass is exact because dis already
// holds shortest times: an improved path uses the new link exactly once.
// The pairs i==o and j==d are relaxed like any other; on a zero diagonal
// (o,d) itself becomes min(dis[o,d], cost) through the same rule.
// Patcher.ApplyChange also handles non-zero intrazonal times.
//
// dis must be square with non-negative entries (+Inf allowed for "no path").
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, ErrZoneOutOfRange, ErrInvalidCost.
//
// Complexity: Time O(N²), Space O(N) for the per-row partials.
func ApplyLinkInsertion(dis *matrix.Dense, o, d int, cost float64) (Patch, error) {
	return defaultPatcher.Insert(context.Background(), dis, o, d, cost)
}

var defaultPatcher = NewPatcher(WithWorkers(1))

// Patcher runs link insertions with per-row parallelism.
//
// Rows are independent during one insertion: with cost ≥ 0 neither row d nor
// column o can improve, so every row reads only its own dis[i,o] and the
// unchanging row d. Per-row partials are reduced in row order, so results are
// identical for any worker count.
type Patcher struct {
	workers int
	logger  *slog.Logger
}

// PatcherOption configures a Patcher.
type PatcherOption func(*Patcher)

// WithWorkers sets the number of goroutines (≤0 means GOMAXPROCS).
func WithWorkers(n int) PatcherOption {
	return func(p *Patcher) { p.workers = n }
}

// WithLogger sets the logger used for per-change debug lines.
func WithLogger(l *slog.Logger) PatcherOption {
	return func(p *Patcher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPatcher builds a Patcher. Defaults: GOMAXPROCS workers, discard logger.
func NewPatcher(opts ...PatcherOption) *Patcher {
	p := &Patcher{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, fn := range opts {
		fn(p)
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}

	return p
}

// Workers reports the effective worker count.
func (p *Patcher) Workers() int { return p.workers }

// Insert is ApplyLinkInsertion with cancellation and the Patcher's parallelism.
func (p *Patcher) Insert(ctx context.Context, dis *matrix.Dense, o, d int, cost float64) (Patch, error) {
	if err := matrix.ValidateSquare(dis); err != nil {
		return Patch{}, fmt.Errorf("ApplyLinkInsertion: %w", err)
	}
	n := dis.Rows()
	if o < 0 || o >= n || d < 0 || d >= n {
		return Patch{}, fmt.Errorf("ApplyLinkInsertion(%d→%d, n=%d): %w", o, d, n, ErrZoneOutOfRange)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Patch{}, fmt.Errorf("ApplyLinkInsertion(%d→%d, %g): %w", o, d, cost, ErrInvalidCost)
	}

	counts := make([]int, n)
	saved := make([]float64, n)
	rowD := dis.Row(d)

	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		var i int
		for i = 0; i < n; i++ {
			if i&1023 == 0 {
				if err := ctx.Err(); err != nil {
					return Patch{}, err
				}
			}
			counts[i], saved[i] = relaxRow(dis.Row(i), rowD, o, cost)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		chunk := (n + workers - 1) / workers
		for lo := 0; lo < n; lo += chunk {
			lo, hi := lo, min(lo+chunk, n)
			g.Go(func() error {
				var i int
				for i = lo; i < hi; i++ {
					if i&1023 == 0 {
						if err := gctx.Err(); err != nil {
							return err
						}
					}
					counts[i], saved[i] = relaxRow(dis.Row(i), rowD, o, cost)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Patch{}, err
		}
	}

	var res Patch
	var i int
	for i = 0; i < n; i++ {
		res.Improved += counts[i]
		res.Saved += saved[i]
	}
	p.logger.Debug("link inserted", "origin", o, "destination", d, "cost", cost,
		"improved", res.Improved, "saved", res.Saved)

	return res, nil
}

// relaxRow applies the candidate rule to one row and returns (count, saved).
// rowI may alias rowD only when i == d, in which case nothing improves.
func relaxRow(rowI, rowD []float64, o int, cost float64) (int, float64) {
	base := rowI[o] + cost
	if math.IsInf(base, 1) {
		return 0, 0
	}
	var (
		j     int
		cand  float64
		count int
		saved float64
	)
	for j = range rowI {
		cand = base + rowD[j]
		if cand < rowI[j] {
			if !math.IsInf(rowI[j], 1) { // newly reachable pairs count but save nothing finite
				saved += rowI[j] - cand
			}
			rowI[j] = cand
			count++
		}
	}

	return count, saved
}

// ApplyChange converts c to matrix units (minutes), writes the link into
// both cells C[o,d] and C[d,o] (never lengthening them) and then relaxes every
// other pair through it in both directions. The returned patch covers the
// direct cells and both relaxations.
func (p *Patcher) ApplyChange(ctx context.Context, costs []*matrix.Dense, c Change) (Patch, error) {
	if err := c.Validate(costRows(costs), len(costs)); err != nil {
		return Patch{}, err
	}
	dis := costs[c.Mode]
	if err := matrix.ValidateSquare(dis); err != nil {
		return Patch{}, fmt.Errorf("ApplyChange: %w", err)
	}
	mins := c.Minutes()
	direct := setLink(dis, c.Origin, c.Destination, mins).Add(setLink(dis, c.Destination, c.Origin, mins))

	fwd, err := p.Insert(ctx, dis, c.Origin, c.Destination, mins)
	if err != nil {
		return Patch{}, err
	}
	back, err := p.Insert(ctx, dis, c.Destination, c.Origin, mins)
	if err != nil {
		return Patch{}, err
	}

	return direct.Add(fwd).Add(back), nil
}

// setLink lowers dis[o,d] to cost. Intrazonal times on the diagonal make
// the relaxation candidate for the direct cell C[o,o]+cost+C[d,d], so the
// cell itself is written first.
func setLink(dis *matrix.Dense, o, d int, cost float64) Patch {
	row := dis.Row(o)
	if !(cost < row[d]) {
		return Patch{}
	}
	var saved float64
	if !math.IsInf(row[d], 1) {
		saved = row[d] - cost
	}
	row[d] = cost

	return Patch{Improved: 1, Saved: saved}
}

func costRows(costs []*matrix.Dense) int {
	if len(costs) == 0 || costs[0] == nil {
		return 0
	}

	return costs[0].Rows()
}
