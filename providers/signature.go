package providers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Parameter names VNPay reserves for the signature itself.
const (
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
)

// Params is a flat set of gateway parameters.
type Params map[string]string

// Canonicalize renders p the way VNPay signs it: keys in ascending byte order,
// empty values skipped, keys and values form-encoded, pairs joined with '&'.
func Canonicalize(p Params) string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA512 of the canonical form of p.
func Sign(p Params, secret string) string {
	return hmacHex(Canonicalize(withoutSignature(p)), secret)
}

// Verify reports whether signature matches p. Malformed input is just invalid.
func Verify(p Params, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := Sign(p, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hmacHex(data, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func withoutSignature(p Params) Params {
	_, hasHash := p[ParamSecureHash]
	_, hasType := p[ParamSecureHashType]
	if !hasHash && !hasType {
		return p
	}
	out := make(Params, len(p))
	for k, v := range p {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		out[k] = v
	}
	return out
}
