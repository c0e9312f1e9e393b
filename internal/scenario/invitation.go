// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ParseInvitation normalizes operator-pasted invitation details into the
// invitation JSON the admin API expects. It accepts a full invitation URL
// carrying a c_i or oob query parameter, a bare base64url payload, or the
// raw invitation JSON itself.
func ParseInvitation(details string) (json.RawMessage, error) {
	details = strings.TrimSpace(details)
	if details == "" {
		return nil, fmt.Errorf("empty invitation")
	}

	candidate := details
	if u, err := url.Parse(details); err == nil && u.RawQuery != "" {
		if v := queryParam(u.RawQuery, "c_i"); v != "" {
			candidate = v
		} else if v := queryParam(u.RawQuery, "oob"); v != "" {
			candidate = v
		}
	}

	if decoded, err := decodeBase64URL(candidate); err == nil {
		candidate = decoded
	}

	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("invalid invitation: not a URL, base64 payload, or JSON document")
	}
	return json.RawMessage(candidate), nil
}

// queryParam extracts a raw query parameter without percent-decoding the
// value. Invitation payloads are base64url and must stay byte-exact.
func queryParam(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		if v, ok := strings.CutPrefix(pair, key+"="); ok {
			return v
		}
	}
	return ""
}

func decodeBase64URL(s string) (string, error) {
	if padlen := 4 - len(s)%4; padlen <= 2 {
		s += strings.Repeat("=", padlen)
	}
	decoded, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
