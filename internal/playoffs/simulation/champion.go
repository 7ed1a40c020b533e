package simulation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/playoffs"
	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
	"github.com/preston-bernstein/nba-playoffs-service/internal/notify"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/status"
	"github.com/preston-bernstein/nba-playoffs-service/internal/store"
)

// announceChampion fires once per finals resolution: only when the finals went from
// unresolved to completed in this call, and never twice for the same winner.
// Sink failures are logged; the announcement is fire-and-forget.
func (o *Orchestrator) announceChampion(ctx context.Context, logger *slog.Logger, before, next store.State, idx status.GameIndex) *playoffs.ChampionEvent {
	winner, ok := bracket.Champion(next.Bracket, idx)
	if !ok {
		return nil
	}
	if bracket.FinalsCompleted(before.Bracket, status.IndexGames(before.Games)) {
		return nil
	}

	key := next.Bracket.Finals.ID + "/" + winner.Team.ID
	o.mu.Lock()
	if _, seen := o.announced[key]; seen {
		o.mu.Unlock()
		return nil
	}
	o.announced[key] = struct{}{}
	o.mu.Unlock()

	season := next.Campaign.Season
	if season == 0 {
		season = next.Bracket.Season
	}
	event := playoffs.ChampionEvent{
		ID:         uuid.NewString(),
		CampaignID: o.campaignID,
		SeriesID:   next.Bracket.Finals.ID,
		TeamID:     winner.Team.ID,
		TeamName:   winner.DisplayName(),
		Date:       next.Campaign.CurrentDate,
		Season:     season,
	}

	if o.champions != nil {
		if err := o.champions.AnnounceChampion(ctx, event, o.campaignID); err != nil {
			logging.Error(logger, "champion announcement failed", err, "team", event.TeamID)
		}
	}
	o.metrics.RecordChampionEvent()
	o.push(notify.Notification{
		Kind:     notify.KindChampion,
		Title:    fmt.Sprintf("%s win the championship", event.TeamName),
		Message:  fmt.Sprintf("%s are champions as of %s.", event.TeamName, event.Date),
		SeriesID: event.SeriesID,
	})
	logging.Info(logger, "champion decided", "team", event.TeamID, logging.FieldDate, event.Date)
	return &event
}

// pushResult queues award notifications first, then the playoff update, in that order.
func (o *Orchestrator) pushResult(res *playoffs.NextGameResult) {
	if res == nil {
		return
	}
	items := make([]notify.Notification, 0, len(res.UpgradePointsAwarded)+1)
	for _, a := range res.UpgradePointsAwarded {
		msg := fmt.Sprintf("%s earned %d upgrade points", a.PlayerName, a.Points)
		if a.Reason != "" {
			msg += " (" + a.Reason + ")"
		}
		items = append(items, notify.Notification{
			Kind:    notify.KindAward,
			Title:   fmt.Sprintf("+%d upgrade points", a.Points),
			Message: msg,
		})
	}
	if u := res.PlayoffUpdate; u != nil {
		items = append(items, notify.Notification{
			Kind:     notify.KindPlayoffUpdate,
			Title:    updateTitle(u.Event),
			Message:  u.Message,
			SeriesID: u.SeriesID,
		})
	}
	o.push(items...)
}

func updateTitle(event string) string {
	switch event {
	case playoffs.UpdateClinched:
		return "Series clinched"
	case playoffs.UpdateEliminated:
		return "Eliminated"
	case playoffs.UpdateChampion:
		return "Champions"
	default:
		return "Playoff update"
	}
}

func (o *Orchestrator) push(items ...notify.Notification) {
	if o.notifier == nil || len(items) == 0 {
		return
	}
	o.notifier.Push(items...)
}
