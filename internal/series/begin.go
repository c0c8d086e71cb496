package series

import (
	"context"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
)

// SetBegin points a show's begin marker at the episode named by the
// identifier, creating the episode when absent. The identifier is
// parsed under the show's locked scheme; on an unlocked show the
// inferred scheme locks the show, the administrative override of the
// classifier's evidence thresholds. A scheme mismatch against a locked
// show is a conflict and leaves the show untouched.
func (s *Service) SetBegin(ctx context.Context, showID models.ULID, identifier string) (*models.Episode, error) {
	identity, err := models.ParseIdentity(identifier)
	if err != nil {
		return nil, err
	}
	if identity.SeasonPack {
		return nil, fmt.Errorf("begin must name an episode, not season %q", identifier)
	}

	var begin *models.Episode
	err = s.withTransaction(ctx, func(repos *repository.Set) error {
		show, err := repos.Shows.GetByID(ctx, showID)
		if err != nil {
			return err
		}
		if show == nil {
			return &models.NotFoundError{Kind: "show", Key: showID.String()}
		}

		if show.IdentifiedBy.Concrete() && show.IdentifiedBy != identity.Scheme {
			return &models.ConflictError{
				Subject: show.Name,
				Detail: fmt.Sprintf("begin identifier %q is %q but show is identified by %q",
					identifier, identity.Scheme, show.IdentifiedBy),
			}
		}

		episode, _, err := repos.Episodes.GetOrCreate(ctx, &models.Episode{
			ShowID:       show.ID,
			Identifier:   identity.Identifier,
			IdentifiedBy: identity.Scheme,
			Season:       identity.Season,
			Number:       identity.Number,
		})
		if err != nil {
			return err
		}

		show.IdentifiedBy = identity.Scheme
		show.BeginEpisodeID = &episode.ID
		if err := repos.Shows.Update(ctx, show); err != nil {
			return err
		}
		begin = episode
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("set show begin",
		"show_id", showID.String(),
		"identifier", begin.Identifier,
		"scheme", string(begin.IdentifiedBy))
	return begin, nil
}
