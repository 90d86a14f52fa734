// Package search implements the weekly route search: per-day-pair leg
// lookups, strict/relaxed time windows, trip combination, price sanity
// filtering, and best-combination selection.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/combiner"
	"github.com/jotajotaz/bcn-flights/internal/filter"
	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/internal/providers"
)

type Config struct {
	OutboundWindow       filter.Window
	ReturnWindow         filter.Window
	RelaxedMarginMinutes int
	MinPrice             float64
	MaxPrice             float64
	SingleLegThreshold   float64
	Workers              int
	DayPairs             []models.DayPair
}

type Searcher struct {
	provider providers.Provider
	cfg      Config
	log      *slog.Logger
}

func New(provider providers.Provider, cfg Config, log *slog.Logger) *Searcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Searcher{
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// WeekStart returns the Monday starting t's calendar week, truncated to the
// date.
func WeekStart(t time.Time) time.Time {
	monday := t.AddDate(0, 0, -weekdayOffset(t.Weekday()))
	y, m, d := monday.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// weekdayOffset counts days since Monday.
func weekdayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// SearchRoute runs the full search for one route against the week containing
// targetDate. Individual leg-lookup failures are recorded in the result's
// error list and never abort the remaining lookups; an empty candidate set
// after the relaxation fallback is a normal outcome.
func (s *Searcher) SearchRoute(ctx context.Context, route models.Route, targetDate time.Time) *models.RouteResult {
	weekStart := WeekStart(targetDate)

	s.log.Info("searching route",
		"route", route.Name, "week_start", weekStart.Format("2006-01-02"))

	res := s.pass(ctx, route, weekStart, s.cfg.OutboundWindow, s.cfg.ReturnWindow)

	relaxed := false
	if len(res.candidates) == 0 {
		relaxed = true
		s.log.Warn("no candidates within strict windows, relaxing",
			"route", route.Name, "margin_minutes", s.cfg.RelaxedMarginMinutes)

		strictErrors := res.errors
		res = s.pass(ctx, route, weekStart,
			s.cfg.OutboundWindow.Relax(s.cfg.RelaxedMarginMinutes),
			s.cfg.ReturnWindow.Relax(s.cfg.RelaxedMarginMinutes))
		res.errors = append(strictErrors, res.errors...)
	}

	candidates := res.candidates[:0:0]
	for _, c := range res.candidates {
		if total := c.TotalPrice(); total >= s.cfg.MinPrice && total <= s.cfg.MaxPrice {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalPrice() < candidates[j].TotalPrice()
	})

	result := &models.RouteResult{
		Origin:         route.Origin,
		Destination:    route.Destination,
		WeekStart:      weekStart,
		Candidates:     candidates,
		RelaxedFilters: relaxed,
		Errors:         res.errors,
	}

	if route.SingleLegEligible {
		result.BestOutbound = s.cheapestSingleLeg(res.outboundLegs)
		result.BestReturn = s.cheapestSingleLeg(res.returnLegs)
	}

	s.log.Info("route search done",
		"route", route.Name, "candidates", len(candidates),
		"relaxed", relaxed, "errors", len(res.errors))
	return result
}

type passResult struct {
	candidates   []models.TripCandidate
	outboundLegs []models.FareListing
	returnLegs   []models.FareListing
	errors       []string
}

type legTask struct {
	query providers.Query
	label string
}

type legOutcome struct {
	listings []models.FareListing
	err      error
}

// pass runs one full strict-or-relaxed sweep over day pairs × combinations.
// Leg lookups are independent, so they fan out over a bounded worker pool;
// tasks are planned and aggregated in configuration order to keep the output
// deterministic.
func (s *Searcher) pass(ctx context.Context, route models.Route, weekStart time.Time, outWindow, retWindow filter.Window) passResult {
	var tasks []legTask
	for _, pair := range s.cfg.DayPairs {
		outboundDate := weekStart.AddDate(0, 0, weekdayOffset(pair.Outbound))
		returnDate := weekStart.AddDate(0, 0, weekdayOffset(pair.Return))

		for _, combo := range route.Combinations {
			tasks = append(tasks,
				legTask{
					query: providers.Query{
						Origin:      combo.Outbound.Origin,
						Destination: combo.Outbound.Destination,
						Date:        outboundDate,
						Window:      outWindow,
					},
					label: fmt.Sprintf("%s ida %s", combo.Name, outboundDate.Format("2006-01-02")),
				},
				legTask{
					query: providers.Query{
						Origin:      combo.Return.Origin,
						Destination: combo.Return.Destination,
						Date:        returnDate,
						Window:      retWindow,
					},
					label: fmt.Sprintf("%s vuelta %s", combo.Name, returnDate.Format("2006-01-02")),
				})
		}
	}

	outcomes := s.fetchAll(ctx, tasks)

	var res passResult
	idx := 0
	for _, pair := range s.cfg.DayPairs {
		outboundDate := weekStart.AddDate(0, 0, weekdayOffset(pair.Outbound))
		returnDate := weekStart.AddDate(0, 0, weekdayOffset(pair.Return))

		for range route.Combinations {
			out, back := outcomes[idx], outcomes[idx+1]

			if out.err != nil {
				res.errors = append(res.errors, fmt.Sprintf("error buscando %s: %v", tasks[idx].label, out.err))
			}
			if back.err != nil {
				res.errors = append(res.errors, fmt.Sprintf("error buscando %s: %v", tasks[idx+1].label, back.err))
			}

			res.outboundLegs = append(res.outboundLegs, out.listings...)
			res.returnLegs = append(res.returnLegs, back.listings...)
			res.candidates = append(res.candidates,
				combiner.Combine(out.listings, back.listings, outboundDate, returnDate)...)

			idx += 2
		}
	}
	return res
}

func (s *Searcher) fetchAll(ctx context.Context, tasks []legTask) []legOutcome {
	outcomes := make([]legOutcome, len(tasks))

	taskCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				listings, err := s.provider.Search(ctx, tasks[i].query)
				outcomes[i] = legOutcome{listings: listings, err: err}
				if err != nil {
					s.log.Error("leg lookup failed", "leg", tasks[i].label, "error", err)
				}
			}
		}()
	}

	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)
	wg.Wait()

	return outcomes
}

// cheapestSingleLeg picks the cheapest sane listing strictly below the
// single-leg threshold, or nil. Ties keep the first-encountered listing.
func (s *Searcher) cheapestSingleLeg(listings []models.FareListing) *models.FareListing {
	var best *models.FareListing
	for i := range listings {
		l := listings[i]
		if l.Price < s.cfg.MinPrice || l.Price >= s.cfg.SingleLegThreshold {
			continue
		}
		if best == nil || l.Price < best.Price {
			best = &listings[i]
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}
