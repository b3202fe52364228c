package ports

import (
	"context"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

// CertificateSource is the monitoring service feeding new certificates.
type CertificateSource interface {
	FetchCertificates(ctx context.Context) ([]domain.Certificate, error)
	Name() string
}

// ThreatPlatform is the subset of the threat intelligence platform API the connector uses.
// Errors reported by the platform itself come back as *domain.GraphQLError.
type ThreatPlatform interface {
	RegisterConnector(ctx context.Context, reg domain.ConnectorRegistration) error

	SearchOrganizations(ctx context.Context, name string) ([]domain.Organization, error)
	AddOrganization(ctx context.Context, input domain.OrganizationInput) (domain.Organization, error)

	SearchLabels(ctx context.Context, value string) ([]domain.Label, error)
	AddLabel(ctx context.Context, value string) (domain.Label, error)

	SearchMarkingDefinitions(ctx context.Context, definition string) ([]domain.MarkingDefinition, error)

	AddDomainObservable(ctx context.Context, input domain.ObservableInput) (domain.Observable, error)
}

// CycleRecorder receives the outcome of every polling cycle.
type CycleRecorder interface {
	RecordCycle(result domain.CycleResult)
}
