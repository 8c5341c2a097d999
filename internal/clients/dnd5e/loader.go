package dnd5e

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ironrations/charsheet/internal/domain/rulebook"
)

// preloadConcurrency bounds parallel API fetches during a preload
const preloadConcurrency = 4

// PreloadLibrary fetches all class and race content and merges it into the
// library. API-supplied data overlays the builtin entries; progression data
// the API lacks survives the merge. A single failed detail fetch fails the
// whole preload so callers can retry cleanly.
func PreloadLibrary(ctx context.Context, client Client, lib *rulebook.Library) error {
	classRefs, err := client.ListClasses()
	if err != nil {
		return err
	}
	raceRefs, err := client.ListRaces()
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(preloadConcurrency)

	classes := make([]*rulebook.Class, len(classRefs))
	for i, ref := range classRefs {
		i, ref := i, ref
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			class, err := client.GetClass(ref.Key)
			if err != nil {
				return err
			}
			classes[i] = class
			return nil
		})
	}

	races := make([]*rulebook.Race, len(raceRefs))
	for i, ref := range raceRefs {
		i, ref := i, ref
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			race, err := client.GetRace(ref.Key)
			if err != nil {
				return err
			}
			races[i] = race
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, class := range classes {
		lib.AddClass(class)
	}
	for _, race := range races {
		lib.AddRace(race)
	}

	log.Printf("preloaded %d classes and %d races", len(classes), len(races))
	return nil
}
