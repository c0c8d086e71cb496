// Package upgrade implements the quality upgrade decision engine. It
// ranks candidate releases for a generic content identifier against the
// best quality already recorded, promotes the single best candidate per
// batch, and never downgrades the stored best. The identifier is a
// free-form string rather than a catalog foreign key, so the engine can
// rank arbitrary content.
package upgrade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/quality"
	"github.com/jmylchreest/episodarr/internal/repository"
)

// Candidate is one release under consideration for an identifier.
type Candidate struct {
	// Title is the observed release title.
	Title string

	// Quality is the release's quality string, parsed leniently.
	Quality string

	// ProperCount breaks ties between equal qualities.
	ProperCount int
}

// parsed returns the candidate's ranked quality.
func (c Candidate) parsed() quality.Quality {
	return quality.ParseLoose(c.Quality)
}

// Actions receives the engine's verdict for each candidate. Callers
// map these onto whatever their pipeline does with entries.
type Actions interface {
	// Accept promotes the candidate.
	Accept(candidate Candidate, reason string)

	// Reject demotes the candidate.
	Reject(candidate Candidate, reason string)
}

// Backlog receives the best-so-far candidate while a timeframe hold is
// active, so a later run can retry it.
type Backlog interface {
	Push(ctx context.Context, identifier string, candidate Candidate, until time.Time) error
}

// HoldAction is what happens to the held best candidate while the
// timeframe window is open.
type HoldAction string

const (
	// HoldReject demotes held candidates until the window closes.
	HoldReject HoldAction = "reject"

	// HoldAccept promotes the held best anyway; the window only gates
	// the backlog push.
	HoldAccept HoldAction = "accept"
)

// Config tunes one engine instance.
type Config struct {
	// Minimum, when known, rejects candidates below it outright.
	Minimum quality.Quality

	// Target, when known, lifts the timeframe hold early once a
	// candidate reaches it.
	Target quality.Quality

	// Timeframe holds sub-target candidates for this long after the
	// identifier was first seen. Zero disables the hold.
	Timeframe time.Duration

	// OnHold is applied to the best candidate while held. Defaults to
	// HoldReject.
	OnHold HoldAction
}

// Engine applies upgrade decisions against the quality history store.
type Engine struct {
	history repository.QualityHistoryRepository
	backlog Backlog
	cfg     Config
	logger  *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine creates an upgrade engine.
func NewEngine(history repository.QualityHistoryRepository, backlog Backlog, cfg Config) *Engine {
	if cfg.OnHold == "" {
		cfg.OnHold = HoldReject
	}
	return &Engine{
		history: history,
		backlog: backlog,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// WithLogger sets the logger for the engine.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// ProcessBatch decides one batch of candidates sharing an identifier.
// Candidates below the configured minimum, or not strictly better than
// the stored best, are rejected. Of the survivors the single best is
// promoted and the rest demoted. While a timeframe hold is open the
// best survivor is pushed to the backlog instead and handled per the
// hold action. The stored best row only ever moves up.
func (e *Engine) ProcessBatch(ctx context.Context, identifier string, candidates []Candidate, actions Actions) error {
	if identifier == "" {
		return models.ErrIdentifierRequired
	}
	if len(candidates) == 0 {
		return nil
	}

	stored, err := e.history.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("loading quality history: %w", err)
	}

	survivors := e.filter(stored, candidates, actions)
	if len(survivors) == 0 {
		return nil
	}

	best := survivors[0]
	for _, candidate := range survivors[1:] {
		if better(candidate, best) {
			actions.Reject(best, "superseded by better candidate in batch")
			best = candidate
			continue
		}
		actions.Reject(candidate, "superseded by better candidate in batch")
	}

	firstSeen := e.now()
	if stored != nil {
		firstSeen = stored.FirstSeen
	}

	if err := e.record(ctx, identifier, best, firstSeen); err != nil {
		return err
	}

	if e.holding(best, firstSeen) {
		until := firstSeen.Add(e.cfg.Timeframe)
		if e.backlog != nil {
			if err := e.backlog.Push(ctx, identifier, best, until); err != nil {
				return fmt.Errorf("pushing to backlog: %w", err)
			}
		}
		e.logger.Debug("holding candidate inside timeframe",
			"identifier", identifier,
			"title", best.Title,
			"until", until)

		if e.cfg.OnHold == HoldAccept {
			actions.Accept(best, "accepted during timeframe hold")
		} else {
			actions.Reject(best, "waiting for target quality inside timeframe")
		}
		return nil
	}

	actions.Accept(best, "best quality in batch")
	return nil
}

// filter rejects candidates below minimum or not better than stored.
func (e *Engine) filter(stored *models.QualityHistory, candidates []Candidate, actions Actions) []Candidate {
	var storedQuality quality.Quality
	var storedProper int
	if stored != nil {
		storedQuality = quality.ParseLoose(stored.Quality)
		storedProper = stored.ProperCount
	}

	survivors := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		q := candidate.parsed()
		if !e.cfg.Minimum.IsUnknown() && !q.Meets(e.cfg.Minimum) {
			actions.Reject(candidate, "below minimum quality")
			continue
		}
		if stored != nil && !betterThan(q, candidate.ProperCount, storedQuality, storedProper) {
			actions.Reject(candidate, "not an upgrade over "+stored.Title)
			continue
		}
		survivors = append(survivors, candidate)
	}
	return survivors
}

// record advances the stored best; the filter already guaranteed the
// candidate is an upgrade.
func (e *Engine) record(ctx context.Context, identifier string, best Candidate, firstSeen time.Time) error {
	err := e.history.Upsert(ctx, &models.QualityHistory{
		Identifier:  identifier,
		Quality:     best.Quality,
		ProperCount: best.ProperCount,
		Title:       best.Title,
		FirstSeen:   firstSeen,
	})
	if err != nil {
		return fmt.Errorf("recording quality history: %w", err)
	}
	return nil
}

// holding reports whether the timeframe window still gates this
// candidate. Reaching the target quality lifts the hold early.
func (e *Engine) holding(best Candidate, firstSeen time.Time) bool {
	if e.cfg.Timeframe <= 0 {
		return false
	}
	if !e.cfg.Target.IsUnknown() && best.parsed().Meets(e.cfg.Target) {
		return false
	}
	return e.now().Before(firstSeen.Add(e.cfg.Timeframe))
}

func better(a, b Candidate) bool {
	return betterThan(a.parsed(), a.ProperCount, b.parsed(), b.ProperCount)
}

func betterThan(q quality.Quality, proper int, than quality.Quality, thanProper int) bool {
	if cmp := q.Compare(than); cmp != 0 {
		return cmp > 0
	}
	return proper > thanProper
}
