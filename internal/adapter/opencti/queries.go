package opencti

const registerConnectorMutation = `
mutation RegisterConnector($input: RegisterConnectorInput) {
  registerConnector(input: $input) {
    id
    connector_state
  }
}`

const labelsQuery = `
query Labels($search: String) {
  labels(search: $search) {
    edges {
      node {
        id
        value
      }
    }
  }
}`

const labelAddMutation = `
mutation LabelAdd($input: LabelAddInput!) {
  labelAdd(input: $input) {
    id
    value
  }
}`

const markingDefinitionsQuery = `
query MarkingDefinitions($search: String) {
  markingDefinitions(search: $search) {
    edges {
      node {
        id
        definition
      }
    }
  }
}`

const organizationsQuery = `
query CheckOrganization($filters: [OrganizationsFiltering!]) {
  organizations(filters: $filters) {
    edges {
      node {
        id
        name
      }
    }
  }
}`

const organizationAddMutation = `
mutation CreateOrganization($input: OrganizationAddInput!) {
  organizationAdd(input: $input) {
    id
    name
  }
}`

const stixCyberObservableAddMutation = `
mutation StixCyberObservableCreationMutation(
  $type: String!
  $x_opencti_description: String
  $createdBy: String
  $objectMarking: [String]
  $objectLabel: [String]
  $x_opencti_score: Int
  $DomainName: DomainNameAddInput
) {
  stixCyberObservableAdd(
    type: $type
    x_opencti_description: $x_opencti_description
    createdBy: $createdBy
    objectMarking: $objectMarking
    objectLabel: $objectLabel
    x_opencti_score: $x_opencti_score
    DomainName: $DomainName
  ) {
    id
    standard_id
    entity_type
    observable_value
  }
}`
