package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-playoffs-service/internal/providers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
)

// Refreshed resources, also used as metric kinds.
const (
	RefreshBracket   = "bracket"
	RefreshGames     = "games"
	RefreshCampaign  = "campaign"
	RefreshRoster    = "roster"
	RefreshStandings = "standings"
)

var (
	fullRefresh  = []string{RefreshBracket, RefreshGames, RefreshCampaign, RefreshRoster, RefreshStandings}
	boardRefresh = []string{RefreshBracket, RefreshGames}
)

// fetchState reads the requested resources concurrently and returns only when all
// of them have succeeded. A missing bracket is not an error: the playoffs have not
// been generated yet.
func (o *Orchestrator) fetchState(ctx context.Context, kinds []string) (store.State, error) {
	var (
		st     store.State
		mu     sync.Mutex
		failed []string
	)
	force := providers.FetchOptions{Force: true}
	g, gctx := errgroup.WithContext(ctx)

	for _, kind := range kinds {
		g.Go(func() error {
			start := time.Now()
			err := o.fetchOne(gctx, kind, force, &st)
			o.metrics.RecordRefresh(kind, time.Since(start), err)
			if err == nil {
				return nil
			}
			if !(errors.Is(err, context.Canceled) && gctx.Err() != nil) {
				mu.Lock()
				failed = append(failed, kind)
				mu.Unlock()
			}
			return fmt.Errorf("%s: %w", kind, err)
		})
	}

	if err := g.Wait(); err != nil {
		sort.Strings(failed)
		return store.State{}, &RefreshError{Failed: failed, Err: err}
	}
	return st, nil
}

// fetchOne fills exactly one field of st, so the goroutines never share a write.
func (o *Orchestrator) fetchOne(ctx context.Context, kind string, force providers.FetchOptions, st *store.State) error {
	var err error
	switch kind {
	case RefreshBracket:
		st.Bracket, err = o.source.FetchBracket(ctx, o.campaignID)
		if errors.Is(err, providers.ErrNotFound) {
			st.Bracket, err = nil, nil
		}
	case RefreshGames:
		st.Games, err = o.source.FetchGames(ctx, o.campaignID, force)
	case RefreshCampaign:
		st.Campaign, err = o.source.FetchCampaign(ctx, o.campaignID)
	case RefreshRoster:
		st.Roster, err = o.source.FetchRoster(ctx, o.campaignID, force)
	case RefreshStandings:
		st.Standings, err = o.source.FetchStandings(ctx, o.campaignID, force)
	default:
		err = fmt.Errorf("unknown resource %q", kind)
	}
	return err
}

// Load performs the full five-way refresh and replaces the shared state.
func (o *Orchestrator) Load(ctx context.Context) error {
	_, err := o.reload(ctx)
	return err
}

// reload is the only path that writes a full snapshot; writeMu keeps it from
// interleaving with a board refresh.
func (o *Orchestrator) reload(ctx context.Context) (store.State, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	next, err := o.fetchState(ctx, fullRefresh)
	if err != nil {
		return store.State{}, err
	}
	o.store.ReplaceAll(next)
	return next, nil
}

// RefreshBoard re-reads the bracket and games only.
func (o *Orchestrator) RefreshBoard(ctx context.Context) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	next, err := o.fetchState(ctx, boardRefresh)
	if err != nil {
		return err
	}
	o.store.ReplaceBoard(next.Bracket, next.Games)
	return nil
}
