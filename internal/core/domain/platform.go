package domain

// Entities living on the threat intelligence platform.

type Organization struct {
	ID   string
	Name string
}

type Label struct {
	ID    string
	Value string
}

type MarkingDefinition struct {
	ID         string
	Definition string
}

type Observable struct {
	ID         string
	StandardID string
	EntityType string
	Value      string
}

// OrganizationInput holds the attributes used when the organization has to be created.
type OrganizationInput struct {
	Name             string
	OrganizationType string // x_opencti_organization_type
	Reliability      string // x_opencti_reliability
}

// ObservableInput describes a Domain-Name observable to create.
type ObservableInput struct {
	Value       string
	Description string
	CreatedBy   string
	MarkingIDs  []string
	LabelIDs    []string
	Score       int
}

// ConnectorRegistration identifies this process to the platform.
type ConnectorRegistration struct {
	ID    string
	Name  string
	Type  string
	Scope []string
}
