package series

import (
	"context"
	"errors"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/quality"
	"github.com/jmylchreest/episodarr/internal/repository"
)

// LatestRelease is the result of GetLatestRelease: exactly one of
// Episode/Season is set, paired with the winning release row.
type LatestRelease struct {
	Episode        *models.Episode
	Season         *models.Season
	EpisodeRelease *models.EpisodeRelease
	SeasonRelease  *models.SeasonRelease
}

// Entity returns the winning entity.
func (l *LatestRelease) Entity() models.Entity {
	if l.Season != nil {
		return l.Season
	}
	return l.Episode
}

// Title returns the winning release title.
func (l *LatestRelease) Title() string {
	if l.SeasonRelease != nil {
		return l.SeasonRelease.Title
	}
	return l.EpisodeRelease.Title
}

// GetLatestRelease returns the most recent release of a show under the
// identifier comparator's order. downloadedOnly restricts to releases
// already marked downloaded; season, when non-nil, restricts to
// entities of that season.
//
// Ties are broken deterministically: a season pack only beats an
// episode on a strictly greater ordering key, and equal keys keep the
// earlier surrogate id. Entities that cannot be ranked against the
// incumbent never supersede it.
func (s *Service) GetLatestRelease(ctx context.Context, showID models.ULID, downloadedOnly bool, season *int) (*LatestRelease, error) {
	show, err := s.repos.Shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, &models.NotFoundError{Kind: "show", Key: showID.String()}
	}

	episodes, err := s.repos.Episodes.ListByShow(ctx, showID, show.IdentifiedBy, 0, 0)
	if err != nil {
		return nil, err
	}
	seasons, err := s.repos.Seasons.ListByShow(ctx, showID, 0, 0)
	if err != nil {
		return nil, err
	}

	var best *LatestRelease
	for _, episode := range episodes {
		if season != nil && episode.Season != *season {
			continue
		}
		release := bestEpisodeRelease(episode.Releases, downloadedOnly)
		if release == nil {
			continue
		}
		best = s.challenge(best, &LatestRelease{Episode: episode, EpisodeRelease: release})
	}
	for _, seasonRow := range seasons {
		if season != nil && seasonRow.Season != *season {
			continue
		}
		release := bestSeasonRelease(seasonRow.Releases, downloadedOnly)
		if release == nil {
			continue
		}
		best = s.challenge(best, &LatestRelease{Season: seasonRow, SeasonRelease: release})
	}
	return best, nil
}

// challenge decides whether the candidate supersedes the incumbent.
func (s *Service) challenge(incumbent, candidate *LatestRelease) *LatestRelease {
	if incumbent == nil {
		return candidate
	}

	cmp, err := models.CompareEntities(candidate.Entity(), incumbent.Entity())
	if err != nil {
		var comparisonErr *models.ComparisonError
		if errors.As(err, &comparisonErr) {
			s.logger.Debug("cannot rank entities, keeping incumbent",
				"incumbent", incumbent.Entity().EntityIdentifier(),
				"candidate", candidate.Entity().EntityIdentifier())
			return incumbent
		}
		return incumbent
	}

	switch {
	case cmp > 0:
		return candidate
	case cmp < 0:
		return incumbent
	}

	// Equal ordering keys. A season pack never wins a tie against an
	// episode; between like entities the earlier id stands.
	if incumbent.Season != nil && candidate.Episode != nil {
		return candidate
	}
	if candidate.Season != nil && incumbent.Episode != nil {
		return incumbent
	}
	if candidate.Entity().EntityID().Compare(incumbent.Entity().EntityID()) < 0 {
		return candidate
	}
	return incumbent
}

// bestEpisodeRelease ranks an episode's releases by quality, then
// proper count, then earlier id.
func bestEpisodeRelease(releases []models.EpisodeRelease, downloadedOnly bool) *models.EpisodeRelease {
	var best *models.EpisodeRelease
	for i := range releases {
		release := &releases[i]
		if downloadedOnly && !release.Downloaded {
			continue
		}
		if best == nil || betterRelease(release.Quality, release.ProperCount, release.ID,
			best.Quality, best.ProperCount, best.ID) {
			best = release
		}
	}
	return best
}

func bestSeasonRelease(releases []models.SeasonRelease, downloadedOnly bool) *models.SeasonRelease {
	var best *models.SeasonRelease
	for i := range releases {
		release := &releases[i]
		if downloadedOnly && !release.Downloaded {
			continue
		}
		if best == nil || betterRelease(release.Quality, release.ProperCount, release.ID,
			best.Quality, best.ProperCount, best.ID) {
			best = release
		}
	}
	return best
}

func betterRelease(q string, proper int, id models.ULID, bestQ string, bestProper int, bestID models.ULID) bool {
	if cmp := quality.ParseLoose(q).Compare(quality.ParseLoose(bestQ)); cmp != 0 {
		return cmp > 0
	}
	if proper != bestProper {
		return proper > bestProper
	}
	return id.Compare(bestID) < 0
}

// NewEntitiesAfter counts the episodes of a show that order strictly
// after the given episode. Rows that never got season/number fields
// fall back to first_seen timestamp comparison. The date scheme has no
// increment to count; it reports zero with a logged note.
func (s *Service) NewEntitiesAfter(ctx context.Context, sinceEpisodeID models.ULID) (int64, error) {
	since, err := s.repos.Episodes.GetByID(ctx, sinceEpisodeID)
	if err != nil {
		return 0, err
	}
	if since == nil {
		return 0, &models.NotFoundError{Kind: "episode", Key: sinceEpisodeID.String()}
	}

	switch since.IdentifiedBy {
	case models.SchemeDate:
		s.logger.Info("cannot calculate new entities for date scheme",
			"episode", since.Identifier)
		return 0, nil
	case models.SchemeEp, models.SchemeSequence:
		if since.Season > 0 || since.Number > 0 {
			return s.repos.Episodes.CountAfter(ctx, since.ShowID, since.Season, since.Number)
		}
	}

	// Legacy/partial rows without numbering: count episodes whose
	// releases appeared after this one's.
	return s.repos.Episodes.CountSeenAfter(ctx, since.ShowID, episodeFirstSeen(since))
}

// episodeFirstSeen is the episode's earliest release sighting, falling
// back to row creation time when it has no releases.
func episodeFirstSeen(episode *models.Episode) time.Time {
	first := episode.CreatedAt
	for i := range episode.Releases {
		if episode.Releases[i].FirstSeen.Before(first) {
			first = episode.Releases[i].FirstSeen
		}
	}
	return first
}

// ShowEpisodes lists a show's episodes in scheme order with half-open
// [start, stop) slicing; zero stop means unbounded.
func (s *Service) ShowEpisodes(ctx context.Context, showID models.ULID, start, stop int) ([]*models.Episode, error) {
	show, err := s.repos.Shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, &models.NotFoundError{Kind: "show", Key: showID.String()}
	}
	return s.repos.Episodes.ListByShow(ctx, showID, show.IdentifiedBy, start, stop)
}

// ShowSeasons lists a show's seasons in season order with half-open
// [start, stop) slicing.
func (s *Service) ShowSeasons(ctx context.Context, showID models.ULID, start, stop int) ([]*models.Season, error) {
	show, err := s.repos.Shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, &models.NotFoundError{Kind: "show", Key: showID.String()}
	}
	return s.repos.Seasons.ListByShow(ctx, showID, start, stop)
}

// GetSeriesSummary returns the filtered, sorted, paginated show
// listing.
func (s *Service) GetSeriesSummary(ctx context.Context, opts repository.SummaryOptions) ([]repository.ShowSummary, error) {
	return s.repos.Shows.GetSummary(ctx, opts)
}
