package atonix

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestGraphQLEscapesQuery(t *testing.T) {
	f := &fakeHTTP{body: `{"data":{}}`}
	if _, err := newFakeClient(f).GraphQL(context.Background(), `he said "hi"`); err != nil {
		t.Fatalf("GraphQL: %v", err)
	}
	req := f.last(t)
	if req.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", req.Method)
	}
	if req.URL != "https://api.example.com/api/graphql/" {
		t.Fatalf("unexpected url %s", req.URL)
	}
	body := string(req.Body)
	if !strings.Contains(body, `"query":"he said \"hi\""`) {
		t.Fatalf("query not escaped: %s", body)
	}
	if body != `{"query":"he said \"hi\"","variables":{}}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestGraphQLEscapesBackslashBeforeQuote(t *testing.T) {
	f := &fakeHTTP{}
	if _, err := newFakeClient(f).GraphQL(context.Background(), `a\"b`); err != nil {
		t.Fatalf("GraphQL: %v", err)
	}
	want := `{"query":"a\\\"b","variables":{}}`
	if got := string(f.last(t).Body); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestGraphQLKeepsHTMLCharacters(t *testing.T) {
	f := &fakeHTTP{}
	if _, err := newFakeClient(f).GraphQL(context.Background(), `{ a(where: "x<y && y>z") }`); err != nil {
		t.Fatalf("GraphQL: %v", err)
	}
	if got := string(f.last(t).Body); !strings.Contains(got, `x<y && y>z`) {
		t.Fatalf("expected html characters unescaped, got %s", got)
	}
}

func TestGraphQLWithVariables(t *testing.T) {
	f := &fakeHTTP{}
	_, err := newFakeClient(f).GraphQLWithVariables(context.Background(), "query($id: ID!) { instance(id: $id) { name } }", map[string]any{"id": "i-1"})
	if err != nil {
		t.Fatalf("GraphQLWithVariables: %v", err)
	}
	if got := string(f.last(t).Body); !strings.Contains(got, `"variables":{"id":"i-1"}`) {
		t.Fatalf("variables missing from body: %s", got)
	}
}

func TestGraphQLSurfacesAPIError(t *testing.T) {
	f := &fakeHTTP{status: http.StatusBadRequest, body: `{"errors":[{"message":"syntax"}]}`}
	_, err := newFakeClient(f).GraphQL(context.Background(), "{")
	if !IsAPIError(err) {
		t.Fatalf("expected api error, got %v", err)
	}
	if !strings.Contains(err.Error(), "syntax") {
		t.Fatalf("expected body in error: %v", err)
	}
}
