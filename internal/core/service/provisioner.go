package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/ports"
)

const (
	OrganizationName        = "Lobo Guara"
	organizationType        = "Other"
	organizationReliability = "A"
)

// ProvisionOrganization finds the connector's organization or creates it.
// The returned handle is meant to be created once and passed to every cycle.
func ProvisionOrganization(ctx context.Context, platform ports.ThreatPlatform, log zerolog.Logger) (domain.Organization, error) {
	orgs, err := platform.SearchOrganizations(ctx, OrganizationName)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to search organization %q: %w", OrganizationName, err)
	}
	if len(orgs) > 0 {
		log.Info().Str("organization", orgs[0].Name).Str("id", orgs[0].ID).Msg("reusing existing organization")
		return orgs[0], nil
	}

	org, err := platform.AddOrganization(ctx, domain.OrganizationInput{
		Name:             OrganizationName,
		OrganizationType: organizationType,
		Reliability:      organizationReliability,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to create organization %q: %w", OrganizationName, err)
	}
	if org.Name == "" {
		org.Name = OrganizationName
	}

	log.Info().Str("organization", org.Name).Str("id", org.ID).Msg("organization created")
	return org, nil
}
