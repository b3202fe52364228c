package opencti

import (
	"context"
	"fmt"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

// ConnectorTypeExternalImport is the platform type of a connector that pulls
// data from an outside source.
const ConnectorTypeExternalImport = "EXTERNAL_IMPORT"

const observableTypeDomainName = "Domain-Name"

type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func (c connection[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type labelNode struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type markingNode struct {
	ID         string `json:"id"`
	Definition string `json:"definition"`
}

type organizationNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type observableNode struct {
	ID              string `json:"id"`
	StandardID      string `json:"standard_id"`
	EntityType      string `json:"entity_type"`
	ObservableValue string `json:"observable_value"`
}

func (c *Client) RegisterConnector(ctx context.Context, reg domain.ConnectorRegistration) error {
	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"id":              reg.ID,
			"name":            reg.Name,
			"type":            reg.Type,
			"scope":           reg.Scope,
			"auto":            false,
			"only_contextual": false,
		},
	}

	var data struct {
		RegisterConnector *struct {
			ID string `json:"id"`
		} `json:"registerConnector"`
	}
	if err := c.do(ctx, "registerConnector", registerConnectorMutation, vars, &data); err != nil {
		return err
	}
	if data.RegisterConnector == nil {
		return fmt.Errorf("registerConnector: empty response")
	}
	return nil
}

func (c *Client) SearchLabels(ctx context.Context, value string) ([]domain.Label, error) {
	var data struct {
		Labels connection[labelNode] `json:"labels"`
	}
	if err := c.do(ctx, "labels", labelsQuery, map[string]interface{}{"search": value}, &data); err != nil {
		return nil, err
	}

	var labels []domain.Label
	for _, n := range data.Labels.nodes() {
		labels = append(labels, domain.Label{ID: n.ID, Value: n.Value})
	}
	return labels, nil
}

func (c *Client) AddLabel(ctx context.Context, value string) (domain.Label, error) {
	vars := map[string]interface{}{
		"input": map[string]interface{}{"value": value},
	}

	var data struct {
		LabelAdd *labelNode `json:"labelAdd"`
	}
	if err := c.do(ctx, "labelAdd", labelAddMutation, vars, &data); err != nil {
		return domain.Label{}, err
	}
	if data.LabelAdd == nil {
		return domain.Label{}, fmt.Errorf("labelAdd: empty response")
	}
	return domain.Label{ID: data.LabelAdd.ID, Value: data.LabelAdd.Value}, nil
}

func (c *Client) SearchMarkingDefinitions(ctx context.Context, definition string) ([]domain.MarkingDefinition, error) {
	var data struct {
		MarkingDefinitions connection[markingNode] `json:"markingDefinitions"`
	}
	if err := c.do(ctx, "markingDefinitions", markingDefinitionsQuery, map[string]interface{}{"search": definition}, &data); err != nil {
		return nil, err
	}

	var markings []domain.MarkingDefinition
	for _, n := range data.MarkingDefinitions.nodes() {
		markings = append(markings, domain.MarkingDefinition{ID: n.ID, Definition: n.Definition})
	}
	return markings, nil
}

func (c *Client) SearchOrganizations(ctx context.Context, name string) ([]domain.Organization, error) {
	vars := map[string]interface{}{
		"filters": []map[string]interface{}{
			{"key": "name", "values": []string{name}, "mode": "and"},
		},
	}

	var data struct {
		Organizations connection[organizationNode] `json:"organizations"`
	}
	if err := c.do(ctx, "organizations", organizationsQuery, vars, &data); err != nil {
		return nil, err
	}

	var orgs []domain.Organization
	for _, n := range data.Organizations.nodes() {
		orgs = append(orgs, domain.Organization{ID: n.ID, Name: n.Name})
	}
	return orgs, nil
}

func (c *Client) AddOrganization(ctx context.Context, input domain.OrganizationInput) (domain.Organization, error) {
	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"name":                        input.Name,
			"x_opencti_organization_type": input.OrganizationType,
			"x_opencti_reliability":       input.Reliability,
		},
	}

	var data struct {
		OrganizationAdd *organizationNode `json:"organizationAdd"`
	}
	if err := c.do(ctx, "organizationAdd", organizationAddMutation, vars, &data); err != nil {
		return domain.Organization{}, err
	}
	if data.OrganizationAdd == nil || data.OrganizationAdd.ID == "" {
		return domain.Organization{}, fmt.Errorf("organizationAdd: empty response")
	}
	return domain.Organization{ID: data.OrganizationAdd.ID, Name: data.OrganizationAdd.Name}, nil
}

func (c *Client) AddDomainObservable(ctx context.Context, input domain.ObservableInput) (domain.Observable, error) {
	markings := input.MarkingIDs
	if markings == nil {
		markings = []string{}
	}
	labels := input.LabelIDs
	if labels == nil {
		labels = []string{}
	}

	vars := map[string]interface{}{
		"type":                  observableTypeDomainName,
		"x_opencti_description": input.Description,
		"createdBy":             input.CreatedBy,
		"objectMarking":         markings,
		"objectLabel":           labels,
		"x_opencti_score":       input.Score,
		"DomainName": map[string]interface{}{
			"value": input.Value,
		},
	}

	var data struct {
		StixCyberObservableAdd *observableNode `json:"stixCyberObservableAdd"`
	}
	if err := c.do(ctx, "stixCyberObservableAdd", stixCyberObservableAddMutation, vars, &data); err != nil {
		return domain.Observable{}, err
	}
	if data.StixCyberObservableAdd == nil {
		return domain.Observable{}, fmt.Errorf("stixCyberObservableAdd: empty response")
	}

	n := data.StixCyberObservableAdd
	return domain.Observable{
		ID:         n.ID,
		StandardID: n.StandardID,
		EntityType: n.EntityType,
		Value:      n.ObservableValue,
	}, nil
}
