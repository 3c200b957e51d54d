package e2e

import (
	"net/http"
	"net/http/httptest"
)

const fixturePayload = `{
	"results": [
		{
			"id": "fixture-1",
			"name": "Priya Raman",
			"title": "Senior Backend Engineer",
			"location": "Berlin",
			"availability": "immediate",
			"technologies": ["Kotlin", "Spring"],
			"skills": ["API Design"],
			"matchScore": 0.91
		},
		{
			"id": "fixture-2",
			"name": "Jonas Weber",
			"title": "Platform Engineer",
			"location": "Hamburg",
			"availability": "2 weeks",
			"technologies": ["Go", "Kubernetes"],
			"matchScore": 0.84
		}
	],
	"totalCount": 2,
	"query": "kotlin"
}`

// startFixtureBackend serves a deterministic search response for any query.
// The spawned binary reaches it through SCOUT_ENDPOINT.
func startFixtureBackend() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixturePayload))
	}))
}
