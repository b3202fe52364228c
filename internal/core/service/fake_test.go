package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

// fakePlatform is an in-memory platform. Search is a substring match, like
// the platform's full text search.
type fakePlatform struct {
	orgs     []domain.Organization
	labels   []domain.Label
	markings []domain.MarkingDefinition

	observables []domain.ObservableInput

	labelAddErr      error
	labelSearchErr   error
	markingSearchErr error
	observableErr    error
	observableErrFor map[string]error // by observable value

	orgSearches int
	orgAdds     int
	labelAdds   int
	seq         int
}

func (f *fakePlatform) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakePlatform) RegisterConnector(ctx context.Context, reg domain.ConnectorRegistration) error {
	return nil
}

func (f *fakePlatform) SearchOrganizations(ctx context.Context, name string) ([]domain.Organization, error) {
	f.orgSearches++
	var out []domain.Organization
	for _, o := range f.orgs {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakePlatform) AddOrganization(ctx context.Context, input domain.OrganizationInput) (domain.Organization, error) {
	f.orgAdds++
	org := domain.Organization{ID: f.nextID("org"), Name: input.Name}
	f.orgs = append(f.orgs, org)
	return org, nil
}

func (f *fakePlatform) SearchLabels(ctx context.Context, value string) ([]domain.Label, error) {
	if f.labelSearchErr != nil {
		return nil, f.labelSearchErr
	}
	var out []domain.Label
	for _, l := range f.labels {
		if strings.Contains(l.Value, value) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakePlatform) AddLabel(ctx context.Context, value string) (domain.Label, error) {
	f.labelAdds++
	if f.labelAddErr != nil {
		return domain.Label{}, f.labelAddErr
	}
	l := domain.Label{ID: f.nextID("label"), Value: value}
	f.labels = append(f.labels, l)
	return l, nil
}

func (f *fakePlatform) SearchMarkingDefinitions(ctx context.Context, definition string) ([]domain.MarkingDefinition, error) {
	if f.markingSearchErr != nil {
		return nil, f.markingSearchErr
	}
	var out []domain.MarkingDefinition
	for _, m := range f.markings {
		if strings.Contains(m.Definition, definition) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakePlatform) AddDomainObservable(ctx context.Context, input domain.ObservableInput) (domain.Observable, error) {
	if err, ok := f.observableErrFor[input.Value]; ok {
		return domain.Observable{}, err
	}
	if f.observableErr != nil {
		return domain.Observable{}, f.observableErr
	}
	f.observables = append(f.observables, input)
	return domain.Observable{ID: f.nextID("obs"), EntityType: "Domain-Name", Value: input.Value}, nil
}

type fakeSource struct {
	certs []domain.Certificate
	err   error
	panic string
	calls int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchCertificates(ctx context.Context) ([]domain.Certificate, error) {
	s.calls++
	if s.panic != "" {
		panic(s.panic)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.certs, nil
}
