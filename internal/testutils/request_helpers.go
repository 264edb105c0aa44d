// Package testutils holds request builders shared by handler tests.
package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
)

func CreateTestRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	return req
}
