package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireSameOrigin(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no headers", nil, http.StatusOK},
		{"same origin", map[string]string{"Origin": "http://example.com"}, http.StatusOK},
		{"other origin", map[string]string{"Origin": "http://evil.com"}, http.StatusForbidden},
		{"other port", map[string]string{"Origin": "http://example.com:8081"}, http.StatusForbidden},
		{"bad origin", map[string]string{"Origin": "::"}, http.StatusForbidden},
		{"fetch same-origin", map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusOK},
		{"fetch none", map[string]string{"Sec-Fetch-Site": "none"}, http.StatusOK},
		{"fetch cross-site", map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
	}

	handler := RequireSameOrigin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://example.com/api/messages", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
