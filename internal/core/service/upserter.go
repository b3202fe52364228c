package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/ports"
)

// DefaultLabels are attached to every observable.
var DefaultLabels = []string{"loboguara", "new_certificate"}

type Upserter struct {
	platform ports.ThreatPlatform
	resolver *Resolver
	labels   []string
	marking  string
	score    int
	log      zerolog.Logger
}

func NewUpserter(platform ports.ThreatPlatform, marking string, score int, log zerolog.Logger) *Upserter {
	return &Upserter{
		platform: platform,
		resolver: NewResolver(platform, log),
		labels:   DefaultLabels,
		marking:  marking,
		score:    score,
		log:      log,
	}
}

// Upsert creates the Domain-Name observable for cert. It reports false with a
// nil error when the platform answered with GraphQL errors; those are logged
// and must not stop the cycle. Any other error is returned.
func (u *Upserter) Upsert(ctx context.Context, org domain.Organization, cert domain.Certificate) (bool, error) {
	value := cert.NormalizedDomain()

	labelIDs, err := u.resolver.ResolveLabels(ctx, u.labels)
	if err != nil {
		return false, err
	}
	markingID, err := u.resolver.ResolveMarking(ctx, u.marking)
	if err != nil {
		return false, err
	}

	input := domain.ObservableInput{
		Value:       value,
		Description: cert.Description(),
		CreatedBy:   org.ID,
		LabelIDs:    labelIDs,
		MarkingIDs:  []string{},
		Score:       u.score,
	}
	if markingID != "" {
		input.MarkingIDs = []string{markingID}
	}

	obs, err := u.platform.AddDomainObservable(ctx, input)
	if err != nil {
		var gqlErr *domain.GraphQLError
		if errors.As(err, &gqlErr) {
			u.log.Error().Err(err).Str("domain", value).Msg("GraphQL errors while creating observable")
			return false, nil
		}
		return false, err
	}

	u.log.Info().
		Str("domain", value).
		Str("id", obs.ID).
		Str("standard_id", obs.StandardID).
		Msg("created domain observable")
	return true, nil
}
