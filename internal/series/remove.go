package series

import (
	"context"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
)

// RemoveShow deletes a show and everything under it in one
// transaction. When forget is true the downloaded release titles are
// broadcast on the forget bus after the delete commits, so a
// seen-history collaborator can unlearn them. A name that resolves to
// nothing is a NotFound error, never a silent success.
func (s *Service) RemoveShow(ctx context.Context, name string, forget bool) error {
	normalized := models.NormalizeShowName(name)

	var showName string
	var titles []string
	err := s.withTransaction(ctx, func(repos *repository.Set) error {
		show, err := repos.Shows.GetByNormalizedName(ctx, normalized)
		if err != nil {
			return err
		}
		if show == nil {
			return &models.NotFoundError{Kind: "show", Key: name}
		}
		showName = show.Name

		if forget {
			titles, err = repos.Releases.DownloadedTitlesForShow(ctx, show.ID)
			if err != nil {
				return err
			}
		}
		return repos.Shows.DeleteCascade(ctx, show.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("removed show", "show", showName, "forget", forget)
	if forget {
		s.publishForget(showName, titles)
	}
	return nil
}

// RemoveEntity deletes a single episode or season of a show, resolved
// by re-parsing the identifier. Removing the episode the show's begin
// marker points at clears the marker and resets identified_by to
// unset, which re-arms scheme classification from scratch.
func (s *Service) RemoveEntity(ctx context.Context, showName, identifier string, forget bool) error {
	identity, err := models.ParseIdentity(identifier)
	if err != nil {
		return err
	}
	normalized := models.NormalizeShowName(showName)

	var displayName string
	var titles []string
	err = s.withTransaction(ctx, func(repos *repository.Set) error {
		show, err := repos.Shows.GetByNormalizedName(ctx, normalized)
		if err != nil {
			return err
		}
		if show == nil {
			return &models.NotFoundError{Kind: "show", Key: showName}
		}
		displayName = show.Name

		if identity.SeasonPack {
			season, err := repos.Seasons.GetByIdentifier(ctx, show.ID, identity.Identifier)
			if err != nil {
				return err
			}
			if season == nil {
				return &models.NotFoundError{Kind: "season", Key: showName + " " + identifier}
			}
			if forget {
				titles = downloadedSeasonTitles(season)
			}
			return repos.Seasons.Delete(ctx, season.ID)
		}

		episode, err := repos.Episodes.GetByIdentifier(ctx, show.ID, identity.Identifier)
		if err != nil {
			return err
		}
		if episode == nil {
			return &models.NotFoundError{Kind: "episode", Key: showName + " " + identifier}
		}
		if forget {
			titles = downloadedEpisodeTitles(episode)
		}

		if show.BeginEpisodeID != nil && *show.BeginEpisodeID == episode.ID {
			show.BeginEpisodeID = nil
			show.IdentifiedBy = ""
			if err := repos.Shows.Update(ctx, show); err != nil {
				return err
			}
			s.logger.Info("removed begin episode, re-arming scheme detection",
				"show", show.Name, "identifier", episode.Identifier)
		}
		return repos.Episodes.Delete(ctx, episode.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("removed entity",
		"show", displayName, "identifier", identifier, "forget", forget)
	if forget {
		s.publishForget(displayName, titles)
	}
	return nil
}

func (s *Service) publishForget(show string, titles []string) {
	if s.bus == nil || len(titles) == 0 {
		return
	}
	event := s.bus.Publish(show, titles)
	s.logger.Debug("published forget event",
		"event_id", event.ID.String(), "show", show, "titles", len(titles))
}

func downloadedEpisodeTitles(episode *models.Episode) []string {
	var titles []string
	for i := range episode.Releases {
		if episode.Releases[i].Downloaded {
			titles = append(titles, episode.Releases[i].Title)
		}
	}
	return titles
}

func downloadedSeasonTitles(season *models.Season) []string {
	var titles []string
	for i := range season.Releases {
		if season.Releases[i].Downloaded {
			titles = append(titles, season.Releases[i].Title)
		}
	}
	return titles
}
