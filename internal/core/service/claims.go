package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// TokenClaims is the decoded, unverified payload segment of a bearer token.
// The gateway only reads hints from it; signature checking is the backend's
// job.
type TokenClaims map[string]any

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims returns the payload of token, or nil when the token has no
// payload segment or it is not base64url-encoded UTF-8 JSON.
func DecodeClaims(token string) TokenClaims {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil || !utf8.Valid(raw) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var claims TokenClaims
	if err := dec.Decode(&claims); err != nil {
		return nil
	}
	return claims
}

// Roles reads the "roles" claim, falling back to "role". Either may be a
// single string or an array; non-string elements are ignored.
func (c TokenClaims) Roles() []string {
	v, ok := c["roles"]
	if !ok || v == nil {
		v = c["role"]
	}

	switch r := v.(type) {
	case string:
		if r == "" {
			return nil
		}
		return []string{r}
	case []any:
		out := make([]string, 0, len(r))
		for _, e := range r {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// UserID reads the numeric "id" claim. Numeric strings are accepted.
func (c TokenClaims) UserID() (int64, bool) {
	switch v := c["id"].(type) {
	case json.Number:
		return domain.FlexID(v.String()).Int64()
	case string:
		return domain.FlexID(v).Int64()
	}
	return 0, false
}
