package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocumentIsValidJSON(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()
	require.True(t, json.Valid([]byte(doc)), "rendered swagger template must be well-formed JSON")

	var parsed struct {
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	for _, p := range []string{
		"/auth/register", "/auth/verify-otp", "/auth/resend-otp",
		"/auth/login", "/auth/forgot-password", "/auth/reset-password",
		"/transactions", "/transactions/{id}",
		"/reports/summary", "/reports/statement",
	} {
		assert.Contains(t, parsed.Paths, p)
	}
	for _, d := range []string{
		"models.RegisterRequest", "models.LoginRequest", "models.TransactionRequest",
	} {
		assert.Contains(t, parsed.Definitions, d)
	}
}

// Every body-taking endpoint must describe its request body, matching the
// @Param annotations on the handlers.
func TestSwaggerDocumentCarriesRequestBodies(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()

	var parsed struct {
		Paths map[string]map[string]struct {
			Parameters []struct {
				In string `json:"in"`
			} `json:"parameters"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	bodyEndpoints := []string{
		"/auth/register", "/auth/verify-otp", "/auth/resend-otp",
		"/auth/login", "/auth/forgot-password", "/auth/reset-password",
	}
	for _, path := range bodyEndpoints {
		op, ok := parsed.Paths[path]["post"]
		require.True(t, ok, path)
		var hasBody bool
		for _, p := range op.Parameters {
			if p.In == "body" {
				hasBody = true
			}
		}
		assert.True(t, hasBody, "%s post must document a body parameter", path)
	}
}
