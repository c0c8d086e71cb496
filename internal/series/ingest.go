package series

import (
	"context"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
)

// ParsedRelease is the structured release record ingestion consumes
// from the parser collaborator. Parsing itself happens upstream; this
// layer assumes the record satisfies the parser's validity contract.
type ParsedRelease struct {
	// Name is the parsed show name. Ignored when StoreOptions carries
	// an already-resolved show.
	Name string

	// SeasonPack marks a release that covers whole seasons rather than
	// single episodes.
	SeasonPack bool

	// Identifiers are the canonical entity identifiers the release
	// covers. Usually one; a multi-season pack expands to several.
	Identifiers []string

	// Season and Episode carry the parsed numbering for the ep and
	// sequence schemes.
	Season  int
	Episode int

	// IDType is the scheme the parse assigned.
	IDType models.IdentifierScheme

	// ProperCount counts proper/repack supersessions in the title.
	ProperCount int

	// Title is the raw observed release title.
	Title string

	// Quality is the canonical quality string of the release.
	Quality string
}

// Validate checks the parser contract before any storage work.
func (p *ParsedRelease) Validate(haveShow bool) error {
	if !haveShow && p.Name == "" {
		return models.ErrNameRequired
	}
	if len(p.Identifiers) == 0 {
		return models.ErrIdentifierRequired
	}
	if p.Title == "" {
		return models.ErrTitleRequired
	}
	if !p.IDType.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidScheme, p.IDType)
	}
	return nil
}

// StoreOptions tunes a single StoreParser call.
type StoreOptions struct {
	// Show, when set, skips show resolution entirely and ingests into
	// this show regardless of the parsed name.
	Show *models.Show
}

// StoreResult reports what one StoreParser call touched. Every row
// carries its persisted id by the time the call returns.
type StoreResult struct {
	Show            *models.Show
	Episodes        []*models.Episode
	Seasons         []*models.Season
	EpisodeReleases []*models.EpisodeRelease
	SeasonReleases  []*models.SeasonRelease
}

// StoreParser ingests one parsed release into the catalog. Shows are
// resolved by exact normalized name only (fuzzy matching is an upstream
// concern) and created on first sight with scheme auto. Episodes,
// seasons and releases are resolved or created on their natural keys,
// so re-ingesting an identical observed release is a no-op that returns
// the stored rows. Marking a release downloaded stays with the caller.
//
// A parse whose scheme contradicts the show's locked scheme is a
// conflict; specials are always admitted.
func (s *Service) StoreParser(ctx context.Context, parsed ParsedRelease, opts StoreOptions) (*StoreResult, error) {
	if err := parsed.Validate(opts.Show != nil); err != nil {
		return nil, err
	}

	result := &StoreResult{}
	err := s.withTransaction(ctx, func(repos *repository.Set) error {
		show := opts.Show
		if show == nil {
			var err error
			show, err = s.resolveOrCreateShow(ctx, repos, parsed.Name)
			if err != nil {
				return err
			}
		}
		result.Show = show

		if err := checkSchemeAgainstShow(show, parsed.IDType); err != nil {
			return err
		}

		for _, identifier := range parsed.Identifiers {
			if parsed.SeasonPack {
				season, release, err := s.storeSeasonRelease(ctx, repos, show, identifier, parsed)
				if err != nil {
					return err
				}
				result.Seasons = append(result.Seasons, season)
				result.SeasonReleases = append(result.SeasonReleases, release)
				continue
			}

			episode, release, err := s.storeEpisodeRelease(ctx, repos, show, identifier, parsed)
			if err != nil {
				return err
			}
			result.Episodes = append(result.Episodes, episode)
			result.EpisodeReleases = append(result.EpisodeReleases, release)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stored parsed release",
		"show", result.Show.Name,
		"title", parsed.Title,
		"scheme", string(parsed.IDType),
		"identifiers", parsed.Identifiers,
		"season_pack", parsed.SeasonPack)
	return result, nil
}

// AddEntity resolves or creates a single episode or season of a show
// from a user-supplied identifier string, parsed under the show's
// locked scheme. It returns the entity without attaching any release.
func (s *Service) AddEntity(ctx context.Context, showID models.ULID, identifier string) (models.Entity, error) {
	identity, err := models.ParseIdentity(identifier)
	if err != nil {
		return nil, err
	}

	var entity models.Entity
	err = s.withTransaction(ctx, func(repos *repository.Set) error {
		show, err := repos.Shows.GetByID(ctx, showID)
		if err != nil {
			return err
		}
		if show == nil {
			return &models.NotFoundError{Kind: "show", Key: showID.String()}
		}
		if err := checkSchemeAgainstShow(show, identity.Scheme); err != nil {
			return err
		}

		if identity.SeasonPack {
			season, _, err := repos.Seasons.GetOrCreate(ctx, &models.Season{
				ShowID:       show.ID,
				Identifier:   identity.Identifier,
				IdentifiedBy: identity.Scheme,
				Season:       identity.Season,
			})
			if err != nil {
				return err
			}
			entity = season
			return nil
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
		entity = episode
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// resolveOrCreateShow finds a show by exact normalized name, creating
// it with scheme auto when absent. A create that loses a race to a
// concurrent ingest falls back to the winner's row.
func (s *Service) resolveOrCreateShow(ctx context.Context, repos *repository.Set, name string) (*models.Show, error) {
	normalized := models.NormalizeShowName(name)

	show, err := repos.Shows.GetByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if show != nil {
		return show, nil
	}

	show = &models.Show{Name: name, IdentifiedBy: models.SchemeAuto}
	if err := repos.Shows.Create(ctx, show); err != nil {
		if existing, lookupErr := repos.Shows.GetByNormalizedName(ctx, normalized); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("creating show %q: %w", name, err)
	}

	s.logger.Info("created show", "show", name, "show_id", show.ID.String())
	return show, nil
}

func (s *Service) storeEpisodeRelease(ctx context.Context, repos *repository.Set, show *models.Show, identifier string, parsed ParsedRelease) (*models.Episode, *models.EpisodeRelease, error) {
	episode, created, err := repos.Episodes.GetOrCreate(ctx, &models.Episode{
		ShowID:       show.ID,
		Identifier:   identifier,
		IdentifiedBy: parsed.IDType,
		Season:       parsed.Season,
		Number:       parsed.Episode,
	})
	if err != nil {
		return nil, nil, err
	}
	if created {
		s.logger.Debug("created episode",
			"show", show.Name, "identifier", identifier, "scheme", string(parsed.IDType))
	}

	release, _, err := repos.Releases.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
		EpisodeID:   episode.ID,
		Title:       parsed.Title,
		Quality:     parsed.Quality,
		ProperCount: parsed.ProperCount,
	})
	if err != nil {
		return nil, nil, err
	}
	return episode, release, nil
}

func (s *Service) storeSeasonRelease(ctx context.Context, repos *repository.Set, show *models.Show, identifier string, parsed ParsedRelease) (*models.Season, *models.SeasonRelease, error) {
	// A multi-season pack carries one season number per identifier, so
	// the parse-level season field cannot cover them all.
	seasonNumber := parsed.Season
	if identity, err := models.ParseIdentity(identifier); err == nil && identity.SeasonPack {
		seasonNumber = identity.Season
	}

	season, created, err := repos.Seasons.GetOrCreate(ctx, &models.Season{
		ShowID:       show.ID,
		Identifier:   identifier,
		IdentifiedBy: parsed.IDType,
		Season:       seasonNumber,
	})
	if err != nil {
		return nil, nil, err
	}
	if created {
		s.logger.Debug("created season",
			"show", show.Name, "identifier", identifier, "scheme", string(parsed.IDType))
	}

	release, _, err := repos.Releases.GetOrCreateSeasonRelease(ctx, &models.SeasonRelease{
		SeasonID:    season.ID,
		Title:       parsed.Title,
		Quality:     parsed.Quality,
		ProperCount: parsed.ProperCount,
	})
	if err != nil {
		return nil, nil, err
	}
	return season, release, nil
}

// checkSchemeAgainstShow rejects entities whose scheme contradicts a
// show already locked to a different concrete scheme. Specials never
// conflict, and an unlocked show accepts anything.
func checkSchemeAgainstShow(show *models.Show, scheme models.IdentifierScheme) error {
	if scheme == models.SchemeSpecial {
		return nil
	}
	if !show.IdentifiedBy.Concrete() {
		return nil
	}
	if show.IdentifiedBy != scheme {
		return &models.ConflictError{
			Subject: show.Name,
			Detail: fmt.Sprintf("show is identified by %q, refusing %q entity",
				show.IdentifiedBy, scheme),
		}
	}
	return nil
}
