package series

import (
	"context"

	"github.com/jmylchreest/episodarr/internal/models"
)

// Strict lookup helpers. Everything here returns a NotFoundError when
// nothing matches; callers that want optional semantics go through the
// repositories directly.

// ShowsByName finds shows whose normalized name contains the fragment.
func (s *Service) ShowsByName(ctx context.Context, fragment string) ([]*models.Show, error) {
	return s.repos.Shows.FindByName(ctx, fragment)
}

// ShowsByExactName resolves a show by exact normalized name, including
// alternate names.
func (s *Service) ShowsByExactName(ctx context.Context, name string) (*models.Show, error) {
	show, err := s.repos.Shows.GetByNormalizedName(ctx, models.NormalizeShowName(name))
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, &models.NotFoundError{Kind: "show", Key: name}
	}
	return show, nil
}

// ShowByID resolves a show by id.
func (s *Service) ShowByID(ctx context.Context, id models.ULID) (*models.Show, error) {
	show, err := s.repos.Shows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, &models.NotFoundError{Kind: "show", Key: id.String()}
	}
	return show, nil
}

// SeasonByID resolves a season by id.
func (s *Service) SeasonByID(ctx context.Context, id models.ULID) (*models.Season, error) {
	season, err := s.repos.Seasons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, &models.NotFoundError{Kind: "season", Key: id.String()}
	}
	return season, nil
}

// EpisodeByID resolves an episode by id.
func (s *Service) EpisodeByID(ctx context.Context, id models.ULID) (*models.Episode, error) {
	episode, err := s.repos.Episodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, &models.NotFoundError{Kind: "episode", Key: id.String()}
	}
	return episode, nil
}

// EpisodeReleaseByID resolves an episode release by id.
func (s *Service) EpisodeReleaseByID(ctx context.Context, id models.ULID) (*models.EpisodeRelease, error) {
	release, err := s.repos.Releases.GetEpisodeReleaseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if release == nil {
		return nil, &models.NotFoundError{Kind: "episode release", Key: id.String()}
	}
	return release, nil
}

// SeasonReleaseByID resolves a season release by id.
func (s *Service) SeasonReleaseByID(ctx context.Context, id models.ULID) (*models.SeasonRelease, error) {
	release, err := s.repos.Releases.GetSeasonReleaseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if release == nil {
		return nil, &models.NotFoundError{Kind: "season release", Key: id.String()}
	}
	return release, nil
}

// EpisodeInShow resolves an episode of a show by canonical identifier.
func (s *Service) EpisodeInShow(ctx context.Context, showID models.ULID, identifier string) (*models.Episode, error) {
	episode, err := s.repos.Episodes.GetByIdentifier(ctx, showID, identifier)
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, &models.NotFoundError{Kind: "episode", Key: identifier}
	}
	return episode, nil
}

// SeasonInShow resolves a season of a show by canonical identifier.
func (s *Service) SeasonInShow(ctx context.Context, showID models.ULID, identifier string) (*models.Season, error) {
	season, err := s.repos.Seasons.GetByIdentifier(ctx, showID, identifier)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, &models.NotFoundError{Kind: "season", Key: identifier}
	}
	return season, nil
}

// ReleaseInEpisode checks that a release belongs to the episode before
// returning it.
func (s *Service) ReleaseInEpisode(ctx context.Context, episodeID, releaseID models.ULID) (*models.EpisodeRelease, error) {
	release, err := s.EpisodeReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.EpisodeID != episodeID {
		return nil, &models.NotFoundError{Kind: "episode release", Key: releaseID.String()}
	}
	return release, nil
}

// ReleaseInSeason checks that a release belongs to the season before
// returning it.
func (s *Service) ReleaseInSeason(ctx context.Context, seasonID, releaseID models.ULID) (*models.SeasonRelease, error) {
	release, err := s.SeasonReleaseByID(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release.SeasonID != seasonID {
		return nil, &models.NotFoundError{Kind: "season release", Key: releaseID.String()}
	}
	return release, nil
}
