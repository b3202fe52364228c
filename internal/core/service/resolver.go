package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/ports"
)

// Resolver turns label values and marking definitions into platform IDs.
// Nothing is cached: every call queries the platform.
type Resolver struct {
	platform ports.ThreatPlatform
	log      zerolog.Logger
}

func NewResolver(platform ports.ThreatPlatform, log zerolog.Logger) *Resolver {
	return &Resolver{platform: platform, log: log}
}

// ResolveLabel returns the ID of the label, creating it when the search finds nothing.
// An empty ID with a nil error means the platform refused the label.
func (r *Resolver) ResolveLabel(ctx context.Context, value string) (string, error) {
	labels, err := r.platform.SearchLabels(ctx, value)
	if err != nil {
		var gqlErr *domain.GraphQLError
		if !errors.As(err, &gqlErr) {
			return "", err
		}
		r.log.Warn().Err(err).Str("label", value).Msg("label search failed, trying to create it")
		labels = nil
	}

	if len(labels) > 0 {
		label := labels[0]
		for _, l := range labels {
			if l.Value == value {
				label = l
				break
			}
		}
		return label.ID, nil
	}

	created, err := r.platform.AddLabel(ctx, value)
	if err != nil {
		var gqlErr *domain.GraphQLError
		if errors.As(err, &gqlErr) {
			r.log.Error().Err(err).Str("label", value).Msg("GraphQL errors while creating label")
			return "", nil
		}
		return "", err
	}

	r.log.Info().Str("label", value).Str("id", created.ID).Msg("label created")
	return created.ID, nil
}

// ResolveLabels resolves every value, dropping the ones that could not be resolved.
func (r *Resolver) ResolveLabels(ctx context.Context, values []string) ([]string, error) {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, err := r.ResolveLabel(ctx, v)
		if err != nil {
			return nil, err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ResolveMarking looks a marking definition up. Markings are never created:
// an empty ID with a nil error means it was not found.
func (r *Resolver) ResolveMarking(ctx context.Context, definition string) (string, error) {
	markings, err := r.platform.SearchMarkingDefinitions(ctx, definition)
	if err != nil {
		var gqlErr *domain.GraphQLError
		if !errors.As(err, &gqlErr) {
			return "", err
		}
		r.log.Error().Err(err).Str("marking", definition).Msg("marking definition search failed")
		return "", nil
	}

	if len(markings) == 0 {
		r.log.Error().Str("marking", definition).Msg("marking definition not found")
		return "", nil
	}

	for _, m := range markings {
		if m.Definition == definition {
			return m.ID, nil
		}
	}
	return markings[0].ID, nil
}
