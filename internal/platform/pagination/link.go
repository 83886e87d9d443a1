package pagination

import (
	"net/url"
	"strings"
)

// BuildLinkHeader returns an RFC 8288 Link header with rel="first" and, when
// next is set, rel="next". Existing query parameters are kept.
func BuildLinkHeader(path string, query url.Values, next string) string {
	first := cloneValues(query)
	first.Del("cursor")
	links := []string{"<" + withQuery(path, first) + `>; rel="first"`}
	if next != "" {
		q := cloneValues(query)
		q.Set("cursor", next)
		links = append(links, "<"+withQuery(path, q)+`>; rel="next"`)
	}
	return strings.Join(links, ", ")
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
