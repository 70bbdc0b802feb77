package api

import (
	"net/url"
	"strings"
)

// routeKind identifies which handler serves a request.
type routeKind int

const (
	routeIndex routeKind = iota
	routeTable
	routeStatic
	routeMetrics
	routeNotFound
)

// metricsLabel names each route for the request metrics.
func (k routeKind) metricsLabel() string {
	switch k {
	case routeIndex:
		return "index"
	case routeTable:
		return "table"
	case routeStatic:
		return "static"
	case routeMetrics:
		return "metrics"
	default:
		return "not_found"
	}
}

// route is the result of path dispatch. asset is only set for routeStatic.
type route struct {
	kind  routeKind
	asset string
}

// decodePathSegments splits a request path on '/' and percent-decodes each
// segment. Decoding is lossy: an invalid escape is kept literally and
// invalid UTF-8 is replaced, a path never fails to decode.
func decodePathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, len(parts))
	for i, part := range parts {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			decoded = part
		}
		segments[i] = strings.ToValidUTF8(decoded, "�")
	}
	return segments
}

// resolveRoute maps a request path to a handler. path must be the raw,
// still-escaped request path: decodePathSegments performs the one and only
// percent-decode, so an encoded slash cannot introduce a segment boundary.
// This is a total function: every path maps to exactly one route, with
// routeNotFound as the catch-all.
func resolveRoute(path string) route {
	segments := decodePathSegments(path)
	for len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}

	switch {
	case len(segments) == 0:
		return route{kind: routeIndex}
	case len(segments) == 1 && segments[0] == "table":
		return route{kind: routeTable}
	case len(segments) == 1 && segments[0] == "metrics":
		return route{kind: routeMetrics}
	case len(segments) == 2 && segments[0] == "static":
		return route{kind: routeStatic, asset: segments[1]}
	default:
		return route{kind: routeNotFound}
	}
}
