package series

import (
	"context"

	"github.com/jmylchreest/episodarr/internal/models"
)

// Classifier thresholds. Early episodes are the likeliest to be
// mis-parsed, so a show only locks to a scheme once the evidence
// corroborates it.
const (
	epMinCount         = 2
	singleSchemeMinObs = 3
	pluralityMinObs    = 5
)

// schemeOrder fixes the iteration order used for the plurality rule so
// a tie resolves the same way on every run.
var schemeOrder = []models.IdentifierScheme{
	models.SchemeEp,
	models.SchemeSequence,
	models.SchemeDate,
	models.SchemeID,
}

// AutoIdentifiedBy classifies a show's numbering scheme from the
// histogram of its episodes' schemes, excluding unset and special rows:
//
//  1. ep locks as soon as it has at least two occurrences and more
//     than a third of the total. Episodic numbering is the most common
//     and the most reliably detected scheme, so it gets priority.
//  2. A single scheme locks once seen three times.
//  3. With five or more observations, the plurality scheme locks.
//  4. Anything weaker stays auto.
//
// Auto is not an error; it means "insufficient evidence, do not yet
// restrict by scheme". A concrete result is persisted onto the show.
func (s *Service) AutoIdentifiedBy(ctx context.Context, showID models.ULID) (models.IdentifierScheme, error) {
	show, err := s.repos.Shows.GetByID(ctx, showID)
	if err != nil {
		return models.SchemeAuto, err
	}
	if show == nil {
		return models.SchemeAuto, &models.NotFoundError{Kind: "show", Key: showID.String()}
	}
	if show.IdentifiedBy.Concrete() {
		return show.IdentifiedBy, nil
	}

	histogram, err := s.repos.Episodes.SchemeHistogram(ctx, showID)
	if err != nil {
		return models.SchemeAuto, err
	}

	scheme := classify(histogram)
	if !scheme.Concrete() {
		return models.SchemeAuto, nil
	}

	show.IdentifiedBy = scheme
	if err := s.repos.Shows.Update(ctx, show); err != nil {
		return models.SchemeAuto, err
	}
	s.logger.Info("locked show numbering scheme",
		"show", show.Name, "scheme", string(scheme))
	return scheme, nil
}

func classify(histogram map[models.IdentifierScheme]int64) models.IdentifierScheme {
	var total int64
	for _, count := range histogram {
		total += count
	}
	if total == 0 {
		return models.SchemeAuto
	}

	if ep := histogram[models.SchemeEp]; ep >= epMinCount && ep > total/3 {
		return models.SchemeEp
	}

	if len(histogram) == 1 && total >= singleSchemeMinObs {
		for scheme := range histogram {
			return scheme
		}
	}

	if total >= pluralityMinObs {
		var best models.IdentifierScheme
		var bestCount int64
		for _, scheme := range schemeOrder {
			if count := histogram[scheme]; count > bestCount {
				best, bestCount = scheme, count
			}
		}
		return best
	}

	return models.SchemeAuto
}
