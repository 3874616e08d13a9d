package formquery

import (
	"strings"

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/internal/metrics"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// Rejection reasons reported by Decode.
const (
	ReasonEmpty          = "empty"
	ReasonMultipleEquals = "multiple-equals"
	ReasonEmptyKey       = "empty-key"
	ReasonNumericKey     = "numeric-key"
)

// Rejection is a query token Decode dropped.
type Rejection struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// Decode parses a query string (with or without the leading "?") into a
// State. Malformed tokens never fail the call; they are skipped and
// returned as rejections.
func Decode(cfg *schema.Config, search string) (State, []Rejection) {
	metrics.QueriesDecodedTotal.Inc()

	state := NewState()
	query := strings.TrimPrefix(search, "?")
	if query == "" {
		return state, nil
	}
	if canonical, ok := cfg.Canonical(query); ok {
		metrics.AliasHitsTotal.WithLabelValues("decode").Inc()
		query = canonical
	}

	var rejected []Rejection
	for _, token := range strings.Split(query, "&") {
		key, value, reason := parseToken(cfg, token)
		if reason != "" {
			rejected = append(rejected, Rejection{Token: token, Reason: reason})
			metrics.TokensRejectedTotal.WithLabelValues(reason).Inc()
			logging.Debug("formquery: dropped token %q (%s)", token, reason)
			continue
		}
		if r, ok := value.(Range); ok {
			state.Range[key] = r
			continue
		}
		state.Values[key] = value
	}
	return state, rejected
}

// parseToken classifies one "&"-separated token. A non-empty reason means
// the token is rejected.
func parseToken(cfg *schema.Config, token string) (string, any, string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil, ReasonEmpty
	}

	parts := strings.Split(token, "=")
	switch {
	case len(parts) > 2:
		return "", nil, ReasonMultipleEquals
	case len(parts) == 2 && parts[0] == "":
		return "", nil, ReasonEmptyKey
	case len(parts) == 2 && parts[1] != "":
		return parsePair(cfg, parts[0], parts[1])
	}
	return parseBare(cfg, parts[0])
}

func parseBare(cfg *schema.Config, token string) (string, any, string) {
	if owner, ok := cfg.FlagOwner(token); ok {
		return owner, token, ""
	}
	if _, numeric := parseNumber(token); numeric {
		return "", nil, ReasonNumericKey
	}
	if owners := cfg.OptionOwners(token); len(owners) == 1 {
		return owners[0], token, ""
	}
	return unescapeComponent(token), true, ""
}

func parsePair(cfg *schema.Config, key, raw string) (string, any, string) {
	if _, numeric := parseNumber(key); numeric {
		return "", nil, ReasonNumericKey
	}
	key = unescapeComponent(key)

	if _, isControl := cfg.Control(key); !isControl && cfg.IsGroup(key) {
		items := strings.Split(raw, "+")
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item = unescapeComponent(item); item != "" {
				list = append(list, item)
			}
		}
		return key, list, ""
	}

	if cfg.IsRange(key) {
		if boundPattern.MatchString(raw) {
			if max, ok := cfg.Maximum(key); ok {
				lo, _ := parseNumber(raw)
				return key, NewRange(lo, max), ""
			}
		}
		if m := boundSpanPattern.FindStringSubmatch(raw); m != nil {
			lo, _ := parseNumber(m[1])
			hi, _ := parseNumber(m[2])
			return key, NewRange(lo, hi), ""
		}
	}

	if ctrl, ok := cfg.Control(key); ok && !ctrl.Numeric() && !cfg.IsRange(key) {
		return key, unescapeComponent(raw), ""
	}

	if n, ok := parseNumber(raw); ok {
		return key, n, ""
	}
	if m := spanPattern.FindStringSubmatch(raw); m != nil {
		lo, _ := parseNumber(m[1])
		hi, _ := parseNumber(m[2])
		return key, NewRange(lo, hi), ""
	}
	return key, unescapeComponent(raw), ""
}
