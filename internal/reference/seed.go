package reference

import (
	"context"

	"go.uber.org/zap"
)

// SeedSet is the default content of one reference table.
type SeedSet struct {
	Table Table
	Names []string
}

// Defaults holds the rows created when a database is initialised.
// Streams are conference specific and are not seeded.
var Defaults = []SeedSet{
	{TableProposalStatus, []string{"Accepted", "Rejected", "Pending", "Withdrawn", "Backup"}},
	{TableProposalType, []string{
		"Presentation",
		"Miniconf",
		"Tutorial - 1 hour and 45 minutes",
		"Tutorial - 3 hours and 30 minutes",
		"Poster",
	}},
	{TableTravelAssistanceType, []string{
		"I do not require travel assistance.",
		"I request that linux.conf.au book and pay for air travel.",
	}},
	{TableTargetAudience, []string{"Community", "User", "Developer", "Business"}},
	{TableAccommodationAssistanceType, []string{
		"I do not require accommodation assistance.",
		"I request that linux.conf.au provide student-style single room accommodation for the duration of the conference.",
	}},
}

// Creator inserts reference rows.
type Creator interface {
	Create(ctx context.Context, table Table, name string) (bool, error)
}

// Seed inserts the given sets, skipping names that already exist. It returns
// the number of rows created.
func Seed(ctx context.Context, repo Creator, sets []SeedSet, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	created := 0
	for _, set := range sets {
		for _, name := range set.Names {
			ok, err := repo.Create(ctx, set.Table, name)
			if err != nil {
				return created, err
			}
			if ok {
				created++
				logger.Debug("seeded reference row", zap.String("table", string(set.Table)), zap.String("name", name))
			}
		}
	}
	logger.Info("reference tables seeded", zap.Int("created", created))
	return created, nil
}
