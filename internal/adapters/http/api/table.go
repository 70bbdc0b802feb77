package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"icingview/internal/adapters/icinga"
	"icingview/internal/domain/row"
	"icingview/pkg/logger"
	"icingview/pkg/metrics"
)

// Upstream error stages for metrics.
const (
	stageTransport = "transport"
	stageContract  = "contract"
)

// handleTable runs the table query pipeline: validate parameters, query
// the monitoring backend, branch on its status, sort and render.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pairs := parseQueryPairs(r.URL.RawQuery)

	// What are we querying?
	objtypeValue, ok := lastValue(pairs, "objtype")
	if !ok {
		s.render.PlainText(w, http.StatusBadRequest, missingParameter("objtype"))
		return
	}
	objType, err := row.ParseObjectType(objtypeValue)
	if err != nil {
		s.render.PlainText(w, http.StatusBadRequest, invalidParameter("objtype", objtypeValue))
		return
	}

	// What's the filter?
	filter, ok := lastValue(pairs, "filter")
	if !ok {
		s.render.PlainText(w, http.StatusBadRequest, missingParameter("filter"))
		return
	}

	// Copy out the upstream coordinates; the read lock is released before
	// any network I/O happens.
	apiConfig := s.store.Snapshot().IcingaAPI

	target, err := icinga.ObjectsURL(apiConfig.BaseURL, objType)
	if err != nil {
		s.log.Error(ctx, "failed to resolve objects URL against base URL",
			logger.String("request_id", requestIDFrom(ctx)),
			logger.String("base_url", apiConfig.BaseURL),
			logger.String("objtype", string(objType)),
			logger.Error(err))
		metrics.RecordUpstreamError(stageContract)
		s.render.InternalError(w)
		return
	}
	s.log.Debug(ctx, "requesting Icinga URL", logger.String("url", target.String()))

	creds := icinga.Credentials{
		Username: apiConfig.Username,
		Password: apiConfig.Password,
	}
	start := time.Now()
	resp, err := s.icinga.QueryObjects(ctx, target, creds, filter)
	metrics.RecordUpstreamRequestDuration(time.Since(start).Seconds())
	if err != nil {
		// Full detail stays in the log; the client gets a generic 500.
		s.log.Error(ctx, "failed to obtain response from Icinga API",
			logger.String("request_id", requestIDFrom(ctx)),
			logger.String("url", target.String()),
			logger.Error(err))
		metrics.RecordUpstreamError(stageTransport)
		s.render.InternalError(w)
		return
	}
	metrics.RecordUpstreamRequest(string(objType), strconv.Itoa(resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		// The upstream answered with its own error payload. That is not a
		// dashboard failure: render it as a first-class error view, outer
		// status 200, inner status embedded in the page.
		s.render.UpstreamError(ctx, w, resp.StatusCode, decodeTextLossy(resp.Body))
		return
	}

	results, err := row.ParseEnvelope(resp.Body)
	if err != nil {
		s.log.Error(ctx, "Icinga API response violates the expected shape",
			logger.String("request_id", requestIDFrom(ctx)),
			logger.String("url", target.String()),
			logger.Error(err))
		metrics.RecordUpstreamError(stageContract)
		s.render.InternalError(w)
		return
	}

	rows := row.FromResults(objType, results)
	row.Sort(rows)
	s.render.Table(ctx, w, rows)
}

func missingParameter(name string) string {
	return fmt.Sprintf("missing required parameter %q", name)
}

func invalidParameter(name, value string) string {
	return fmt.Sprintf("required parameter %q has invalid value %q", name, value)
}

// queryPair is one key-value pair of the query string, in source order.
type queryPair struct {
	key   string
	value string
}

// parseQueryPairs decodes an application/x-www-form-urlencoded query
// string. Decoding never fails: invalid percent escapes stay literal and
// invalid UTF-8 is replaced. Order of same-named parameters is preserved.
func parseQueryPairs(rawQuery string) []queryPair {
	if rawQuery == "" {
		return nil
	}
	parts := strings.Split(rawQuery, "&")
	pairs := make([]queryPair, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		pairs = append(pairs, queryPair{
			key:   unescapeLossy(key),
			value: unescapeLossy(value),
		})
	}
	return pairs
}

// lastValue returns the value of the last occurrence of key. Last wins by
// contract: the rightmost duplicate parameter is the effective one.
func lastValue(pairs []queryPair, key string) (string, bool) {
	for i := len(pairs) - 1; i >= 0; i-- {
		if pairs[i].key == key {
			return pairs[i].value, true
		}
	}
	return "", false
}

// unescapeLossy percent-decodes a form-encoded token. '+' means space;
// a malformed escape is kept as literal text instead of failing.
func unescapeLossy(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return strings.ToValidUTF8(b.String(), "�")
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// decodeTextLossy decodes an upstream error payload for display. Valid
// UTF-8 passes through; otherwise every byte maps to its Latin-1
// codepoint. Best-effort display, this can't fail.
func decodeTextLossy(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	var b strings.Builder
	b.Grow(len(body))
	for _, c := range body {
		b.WriteRune(rune(c))
	}
	return b.String()
}
