package models

// Entity is the common ordering surface shared by Episode and Season.
// Ordering and equality are only defined between entities that share the
// same identifier scheme; everything else is a ComparisonError.
type Entity interface {
	Scheme() IdentifierScheme
	SortSeason() int
	SortNumber() int
	EntityIdentifier() string
	IsSeasonPack() bool
	EntityID() ULID
}

// CompareEntities returns a three-way ordering between two entities
// under their shared scheme:
//
//   - ep/sequence order by (season, number); a season pack orders by
//     season alone, so a pack and an episode of the same season tie.
//   - date orders by the canonical ISO identifier string.
//   - a special on either side never ranks less or greater; the result
//     is 0 so callers keep what they already have.
//
// Mixed schemes return a ComparisonError; callers must treat that as
// "cannot rank, do not supersede" rather than guessing.
func CompareEntities(a, b Entity) (int, error) {
	as, bs := a.Scheme(), b.Scheme()

	if as == SchemeSpecial || bs == SchemeSpecial {
		return 0, nil
	}
	if as != bs {
		return 0, &ComparisonError{
			Left:        a.EntityIdentifier(),
			LeftScheme:  as,
			Right:       b.EntityIdentifier(),
			RightScheme: bs,
		}
	}

	switch as {
	case SchemeEp, SchemeSequence:
		if c := compareInt(a.SortSeason(), b.SortSeason()); c != 0 {
			return c, nil
		}
		// A season pack addresses the whole season: it neither precedes
		// nor follows an episode within that season.
		if a.IsSeasonPack() || b.IsSeasonPack() {
			return 0, nil
		}
		return compareInt(a.SortNumber(), b.SortNumber()), nil
	case SchemeDate:
		// Canonical identifiers are ISO dates, so lexicographic order is
		// chronological order.
		switch {
		case a.EntityIdentifier() < b.EntityIdentifier():
			return -1, nil
		case a.EntityIdentifier() > b.EntityIdentifier():
			return 1, nil
		}
		return 0, nil
	default:
		// id and legacy/unset schemes carry no ordering information.
		return 0, &ComparisonError{
			Left:        a.EntityIdentifier(),
			LeftScheme:  as,
			Right:       b.EntityIdentifier(),
			RightScheme: bs,
		}
	}
}

// EntitiesEqual reports identity equality: the same kind of entity, the
// same scheme and the same canonical identifier. A season pack is never
// equal to an episode.
func EntitiesEqual(a, b Entity) bool {
	if a.IsSeasonPack() != b.IsSeasonPack() {
		return false
	}
	if a.Scheme() != b.Scheme() {
		return false
	}
	return a.EntityIdentifier() == b.EntityIdentifier()
}

// EntityLess reports whether a orders strictly before b, propagating any
// ComparisonError.
func EntityLess(a, b Entity) (bool, error) {
	c, err := CompareEntities(a, b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
