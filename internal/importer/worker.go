// Package importer periodically pulls job offers from an external job
// board and records the ones advertised by a known company as job postings.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/jobs-service/internal/jobs"
)

// Fetcher returns the offers for one (title, location) search.
type Fetcher interface {
	Fetch(ctx context.Context, title, location string) ([]Offer, error)
}

// Store is the part of jobs.Service the importer writes through.
type Store interface {
	CompanyByHandle(ctx context.Context, handle string) (*jobs.Company, error)
	Create(ctx context.Context, in jobs.NewJob) (*jobs.Job, error)
}

// Seen remembers which external offers were already imported.
type Seen interface {
	// Mark records id and reports whether it was new.
	Mark(ctx context.Context, id string) (bool, error)
	// Forget drops id so a failed import is retried next cycle.
	Forget(ctx context.Context, id string) error
}

// Search is the set of queries one import cycle runs.
type Search struct {
	Titles    []string
	Locations []string
	RedFlags  []string
}

// Stats counts what happened to the offers of one cycle.
type Stats struct {
	Inserted  int
	Filtered  int
	Unmatched int
	Duplicate int
	Failed    int
}

// Worker runs the import cycle: fetch, red-flag filter, company match,
// dedup, insert.
type Worker struct {
	fetcher Fetcher
	store   Store
	seen    Seen
	search  Search
}

// NewWorker constructs a Worker.
func NewWorker(fetcher Fetcher, store Store, seen Seen, search Search) *Worker {
	return &Worker{fetcher: fetcher, store: store, seen: seen, search: search}
}

// Run executes one import cycle over every (title × location) pair. A
// failing pair is logged and skipped.
func (w *Worker) Run(ctx context.Context) Stats {
	var total Stats

	locations := w.search.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}
	for _, title := range w.search.Titles {
		for _, location := range locations {
			offers, err := w.fetcher.Fetch(ctx, title, location)
			if err != nil {
				log.Printf("[importer] Error fetching (%q, %q): %v — continuing", title, location, err)
			}
			for _, o := range offers {
				w.importOffer(ctx, o, &total)
			}
		}
	}

	log.Printf("[importer] Cycle done — inserted=%d filtered=%d unmatched=%d duplicates=%d failed=%d",
		total.Inserted, total.Filtered, total.Unmatched, total.Duplicate, total.Failed)
	return total
}

func (w *Worker) importOffer(ctx context.Context, o Offer, st *Stats) {
	if ContainsRedFlag(o, w.search.RedFlags) {
		st.Filtered++
		return
	}

	handle := CompanyHandle(o.Company)
	if handle == "" {
		st.Unmatched++
		return
	}
	if _, err := w.store.CompanyByHandle(ctx, handle); err != nil {
		if !errors.Is(err, jobs.ErrCompanyNotFound) {
			log.Printf("[importer] Company lookup %q: %v", handle, err)
			st.Failed++
			return
		}
		st.Unmatched++
		return
	}

	id := "adzuna:" + o.ExternalID
	fresh, err := w.seen.Mark(ctx, id)
	if err != nil {
		log.Printf("[importer] Dedup check %s: %v", id, err)
		st.Failed++
		return
	}
	if !fresh {
		st.Duplicate++
		return
	}

	if _, err := w.store.Create(ctx, toNewJob(o, handle)); err != nil {
		log.Printf("[importer] Create %s: %v", id, err)
		if err := w.seen.Forget(ctx, id); err != nil {
			log.Printf("[importer] Forget %s: %v", id, err)
		}
		st.Failed++
		return
	}
	st.Inserted++
}

func toNewJob(o Offer, handle string) jobs.NewJob {
	in := jobs.NewJob{Title: o.Title, CompanyHandle: handle}
	if o.SalaryMin > 0 {
		s := int(math.Round(o.SalaryMin))
		in.Salary = &s
	}
	return in
}

// RedisSeen implements Seen with SETNX keys that expire after TTL.
type RedisSeen struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSeen returns a Seen backed by rdb.
func NewRedisSeen(rdb *redis.Client, ttl time.Duration) *RedisSeen {
	return &RedisSeen{rdb: rdb, ttl: ttl}
}

func seenKey(id string) string { return "jobs:imported:" + id }

func (s *RedisSeen) Mark(ctx context.Context, id string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, seenKey(id), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisSeen) Forget(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, seenKey(id)).Err()
}
