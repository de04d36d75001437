package service

import (
	"net"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// normalizeTargetURL accepts absolute http and https URLs. Input without any
// scheme gets one more chance with http:// in front.
func normalizeTargetURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if isHTTPURL(candidate) {
		return candidate, nil
	}

	if candidate != "" && !strings.Contains(candidate, "://") {
		prefixed := "http://" + candidate
		if isHTTPURL(prefixed) {
			return prefixed, nil
		}
	}

	return "", ErrInvalidURL
}

func isHTTPURL(raw string) bool {
	if raw == "" || strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return false
	}
	if err := validate.Var(raw, "http_url"); err != nil {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return isValidHost(u.Hostname())
}

func isValidHost(host string) bool {
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	if len(host) > 253 {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}

	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	// Names other than localhost need a top-level domain
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
				return false
			}
		}
	}
	return true
}
