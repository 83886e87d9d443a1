package respond

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	mediaJSON        = "application/json"
	mediaCBOR        = "application/cbor"
	mediaProblemJSON = "application/problem+json"
	mediaProblemCBOR = "application/problem+cbor"
)

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. A bare type means
// type/*; a missing, malformed or out-of-range q means 1. The last q wins.
func parseAccept(header string) []mediaRange {
	var out []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		media, params, _ := strings.Cut(part, ";")
		media = strings.ToLower(strings.TrimSpace(media))
		typ, subtype, ok := strings.Cut(media, "/")
		if !ok {
			subtype = "*"
		}
		r := mediaRange{typ: strings.TrimSpace(typ), subtype: strings.TrimSpace(subtype), q: 1}
		for p := range strings.SplitSeq(params, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || q < 0 || q > 1 {
				q = 1
			}
			r.q = q
		}
		out = append(out, r)
	}
	return out
}

// specificity ranks how closely r names the given format, or -1 when it does
// not match: problem+x 3, x 2, application/*+x 1, wildcards 0.
func (r mediaRange) specificity(format string) int {
	switch {
	case r.typ == "*" && r.subtype == "*":
		return 0
	case r.typ != "application":
		return -1
	case r.subtype == "problem+"+format:
		return 3
	case r.subtype == format:
		return 2
	case r.subtype == "*+"+format:
		return 1
	case r.subtype == "*":
		return 0
	}
	return -1
}

type rank struct {
	q           float64
	specificity int
}

// rankFormat takes the q of the most specific matching range, as RFC 9110
// section 12.5.1 prescribes.
func rankFormat(ranges []mediaRange, format string) rank {
	best := rank{specificity: -1}
	for _, r := range ranges {
		s := r.specificity(format)
		if s < 0 {
			continue
		}
		if s > best.specificity || (s == best.specificity && r.q > best.q) {
			best = rank{q: r.q, specificity: s}
		}
	}
	return best
}

// selectFormat reports whether CBOR should be served. Quality decides, then
// specificity; JSON wins ties and is the default.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return false
	}
	cborRank := rankFormat(ranges, "cbor")
	jsonRank := rankFormat(ranges, "json")
	if cborRank.specificity < 0 || cborRank.q == 0 {
		return false
	}
	if jsonRank.specificity < 0 || jsonRank.q == 0 {
		return true
	}
	if cborRank.q != jsonRank.q {
		return cborRank.q > jsonRank.q
	}
	return cborRank.specificity > jsonRank.specificity
}

// ensureVary adds each value to Vary unless already listed.
func ensureVary(h http.Header, values ...string) {
	present := make(map[string]struct{})
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			present[strings.ToLower(strings.TrimSpace(part))] = struct{}{}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		h.Add("Vary", v)
	}
}
