// Package linkstate maps search parameters to and from a query string so
// any search can be reproduced from a shareable link.
//
// Encoding omits every field that holds its default to keep links compact;
// decoding substitutes the defaults back for absent keys, so the two
// functions are exact inverses for any valid query.
package linkstate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhoward/scout/internal/query"
)

// Link parameter names.
const (
	paramText           = "q"
	paramTopK           = "topK"
	paramMinScore       = "minScore"
	paramLocation       = "location"
	paramAvailability   = "availability"
	paramTechnologies   = "technologies"
	paramSkills         = "skills"
	paramCertifications = "certifications"
	paramMinYears       = "minYears"
)

// Encode projects q onto flat key-value pairs. Multi-valued axes serialize
// as a single comma-joined parameter.
func Encode(q query.Query) url.Values {
	params := url.Values{}
	if q.Text != "" {
		params.Set(paramText, q.Text)
	}
	if q.TopK != query.DefaultTopK && q.TopK > 0 {
		params.Set(paramTopK, strconv.Itoa(q.TopK))
	}
	if q.MinScore != query.DefaultMinScore {
		params.Set(paramMinScore, strconv.FormatFloat(q.MinScore, 'f', -1, 64))
	}
	if q.Facets.Location != "" {
		params.Set(paramLocation, q.Facets.Location)
	}
	if q.Facets.Availability != "" {
		params.Set(paramAvailability, q.Facets.Availability)
	}
	setJoined(params, paramTechnologies, q.Facets.Technologies)
	setJoined(params, paramSkills, q.Facets.Skills)
	setJoined(params, paramCertifications, q.Facets.Certifications)
	if q.Facets.MinYears > 0 {
		params.Set(paramMinYears, strconv.Itoa(q.Facets.MinYears))
	}
	return params
}

// EncodeString returns the encoded query string form of q.
func EncodeString(q query.Query) string {
	return Encode(q).Encode()
}

// Decode rebuilds a Query from link parameters. Absent keys take their
// defaults; malformed numeric values are an error rather than silently
// becoming defaults, so a mangled link is visible to the user.
func Decode(params url.Values) (query.Query, error) {
	q := query.Default()
	q.Text = params.Get(paramText)

	if raw := params.Get(paramTopK); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return query.Query{}, fmt.Errorf("invalid %s %q", paramTopK, raw)
		}
		q.TopK = n
	}
	if raw := params.Get(paramMinScore); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 1 {
			return query.Query{}, fmt.Errorf("invalid %s %q", paramMinScore, raw)
		}
		q.MinScore = f
	}

	q.Facets.Location = params.Get(paramLocation)
	q.Facets.Availability = params.Get(paramAvailability)
	q.Facets.Technologies = splitJoined(params.Get(paramTechnologies))
	q.Facets.Skills = splitJoined(params.Get(paramSkills))
	q.Facets.Certifications = splitJoined(params.Get(paramCertifications))

	if raw := params.Get(paramMinYears); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return query.Query{}, fmt.Errorf("invalid %s %q", paramMinYears, raw)
		}
		q.Facets.MinYears = n
	}

	return q, nil
}

// DecodeString parses a raw query string (with or without a leading '?')
// and rebuilds the Query.
func DecodeString(raw string) (query.Query, error) {
	raw = strings.TrimPrefix(raw, "?")
	params, err := url.ParseQuery(raw)
	if err != nil {
		return query.Query{}, fmt.Errorf("parse link: %w", err)
	}
	return Decode(params)
}

func setJoined(params url.Values, key string, values []string) {
	if len(values) == 0 {
		return
	}
	params.Set(key, strings.Join(values, ","))
}

func splitJoined(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
