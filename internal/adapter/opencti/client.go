package opencti

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/adapter/metrics"
	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

const defaultTimeout = 60 * time.Second

// Client talks to the OpenCTI GraphQL endpoint.
type Client struct {
	gql *graphql.Client
	log zerolog.Logger
}

// bearerTransport injects the platform API token into every outgoing request.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(req)
}

// NewClient builds a client for the platform at baseURL (without the /graphql suffix).
func NewClient(client *http.Client, baseURL, token string, log zerolog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authed := *client
	authed.Transport = &bearerTransport{base: base, token: token}

	endpoint := strings.TrimSuffix(baseURL, "/") + "/graphql"
	return &Client{
		gql: graphql.NewClient(endpoint, &authed),
		log: log,
	}
}

// clientErrorCodes are the codes the library puts on failures it raised itself
// (HTTP status, transport, encoding). Anything else came from the server.
var clientErrorCodes = map[string]bool{
	graphql.ErrRequestError: true,
	graphql.ErrJsonEncode:   true,
	graphql.ErrJsonDecode:   true,
}

// do executes one GraphQL operation and decodes its data into out.
// An errors array in the response is returned as *domain.GraphQLError.
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	raw, err := c.gql.ExecRaw(ctx, query, variables)

	c.log.Debug().
		Str("operation", operation).
		RawJSON("data", nonEmptyJSON(raw)).
		AnErr("error", err).
		Msg("graphql response")

	if err != nil {
		var errs graphql.Errors
		if !errors.As(err, &errs) || isClientError(errs) {
			return fmt.Errorf("failed to call %s: %w", operation, err)
		}

		metrics.RecordGraphQLError(operation)
		gqlErr := &domain.GraphQLError{Operation: operation}
		for _, e := range errs {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}

	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", operation, err)
	}
	return nil
}

func isClientError(errs graphql.Errors) bool {
	for _, e := range errs {
		if code, ok := e.Extensions["code"].(string); ok && clientErrorCodes[code] {
			return true
		}
	}
	return false
}

func nonEmptyJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
