package settings

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SeedDefaults writes the default of every known key that has no value yet.
// The writes run in parallel and SeedDefaults returns only after all of them
// finished; the first failure is returned.
func SeedDefaults(ctx context.Context, s Store) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, key := range Keys() {
		def := defaults[key]
		g.Go(func() error {
			if err := s.SetIfNull(ctx, key, def); err != nil {
				return fmt.Errorf("seed default %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}
