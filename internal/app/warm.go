package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// WarmCatalogs refreshes the cached room catalog of every hotel in codes,
// at most workers at a time. It returns how many hotels failed.
func (s *AvailabilityService) WarmCatalogs(ctx context.Context, codes []string, workers int) (int, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return int(failed.Load()), err
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return int(failed.Load()), err
		}

		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			defer sem.Release(1)

			cat, err := s.RoomCatalog(ctx, code, true)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", code).Err(err).Msg("catalog warm failed")
				return
			}
			log.Info().Str("hotel", code).Int("room_types", len(cat.RoomTypes)).Msg("catalog warm ok")
		}(code)
	}

	wg.Wait()
	return int(failed.Load()), nil
}
