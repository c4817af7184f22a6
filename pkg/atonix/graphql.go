package atonix

import "context"

const pathGraphQL = "/api/graphql/"

// GraphQL executes query with an empty variables object.
func (c *Client) GraphQL(ctx context.Context, query string) ([]byte, error) {
	return c.GraphQLWithVariables(ctx, query, nil)
}

// GraphQLWithVariables executes query with the given variables. A nil map is
// sent as {}.
func (c *Client) GraphQLWithVariables(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	return c.postJSON(ctx, pathGraphQL, map[string]any{
		"query":     query,
		"variables": variables,
	})
}
