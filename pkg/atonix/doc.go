// Package atonix is a thin client for the Atonix services API.
//
// Every call is a single synchronous request/response cycle: the client
// sends an authenticated request and returns the raw response body. It does
// not retry, paginate, cache, or parse responses.
//
//	client := atonix.New("https://api.atonixcorp.com", token)
//	body, err := client.ComplianceControls(ctx, "iso27001")
//	if apiErr, ok := atonix.AsAPIError(err); ok {
//	    log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
package atonix
