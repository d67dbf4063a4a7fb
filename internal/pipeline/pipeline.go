package pipeline

import (
	"context"
	"fmt"
	"strings"

	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/geodesy"
	"vet-hospital-api/internal/registry"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Settings carries everything one registry pass needs
type Settings struct {
	Encoding       string
	Projection     string
	Bounds         geodesy.Bounds
	Keywords       []string
	Schema         registry.Schema
	ValidateHeader bool
	// Workers > 1 normalizes rows concurrently; output order is unchanged
	Workers int
}

// DefaultSettings mirrors the batch converter defaults
func DefaultSettings() Settings {
	return Settings{
		Encoding:       "euc-kr",
		Projection:     geodesy.ModifiedCentralBelt,
		Bounds:         geodesy.KoreaBounds,
		Keywords:       registry.DefaultSpecialKeywords,
		Schema:         registry.DefaultSchema(),
		ValidateHeader: true,
		Workers:        1,
	}
}

// Build decodes a registry buffer and runs every data row through the normalizer.
// Decode and schema errors are fatal; row rejections are only tallied.
func Build(ctx context.Context, buf []byte, set Settings) (*dataset.Dataset, error) {
	lines, err := registry.Decode(buf, set.Encoding)
	if err != nil {
		return nil, err
	}

	if set.ValidateHeader {
		if err := set.Schema.Validate(registry.SplitFields(strings.TrimSpace(lines[0]))); err != nil {
			return nil, err
		}
	}

	reprojector, err := geodesy.NewReprojector(set.Projection, set.Bounds)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	normalizer := registry.NewNormalizer(set.Schema, set.Keywords, reprojector)

	outcomes, err := normalizeAll(ctx, lines, normalizer, set.Workers)
	if err != nil {
		return nil, err
	}

	asm := dataset.NewAssembler()
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		if !o.Accepted() {
			log.Ctx(ctx).Debug().Int("line", o.Line).Str("reason", string(o.Reason)).AnErr("cause", o.Err).Msg("row rejected")
		}
		asm.Add(*o)
	}
	return asm.Dataset(len(lines)), nil
}

// normalizeAll fills one slot per line so results keep file order; blank lines and
// the header stay nil.
func normalizeAll(ctx context.Context, lines []string, n *registry.Normalizer, workers int) ([]*registry.Outcome, error) {
	slots := make([]*registry.Outcome, len(lines))
	run := func(from, to int) {
		for i := max(from, 1); i < to; i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}
			o := n.Normalize(i+1, registry.SplitFields(line))
			slots[i] = &o
		}
	}

	if workers <= 1 {
		run(0, len(lines))
		return slots, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(lines) + workers - 1) / workers
	for from := 0; from < len(lines); from += chunk {
		from, to := from, min(from+chunk, len(lines))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run(from, to)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}
