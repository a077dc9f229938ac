package domain

import "errors"

var (
	// ErrInvalidOccupation names an occupation whose end does not come
	// after its start. The core does not return it: it skips such
	// occupations rather than aborting the whole run (spec §7: hard input
	// errors degrade to skip-the-offender, never abort-everything).
	ErrInvalidOccupation = errors.New("scheduling: occupation end must be after start")

	// ErrInvalidItem names an item with a non-positive duration or an
	// unknown priority tier. The core does not return it either; such
	// items are skipped.
	ErrInvalidItem = errors.New("scheduling: item has an invalid duration or tier")
)
