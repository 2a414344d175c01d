package href

import (
	"strings"

	"golang.org/x/net/idna"
)

const (
	pathSafe     = "/:@!$&'()*+,;="
	querySafe    = pathSafe + "?"
	userinfoSafe = ":!$&'()*+,;="
	hexDigits    = "0123456789ABCDEF"
)

// IRIToURI turns an internationalized, possibly unescaped reference into an
// ASCII URI. Unsafe and non-ASCII bytes are percent-encoded, existing
// escapes are kept, and internationalized host names are Punycode-encoded.
// Applying it to its own output returns the same string.
func IRIToURI(raw string) string {
	if raw == "" || strings.HasPrefix(strings.ToLower(raw), "data:") {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))

	rest := raw
	if scheme := schemeRegex.FindString(rest); scheme != "" {
		b.WriteString(scheme)
		rest = rest[len(scheme):]
	}

	if strings.HasPrefix(rest, "//") {
		authority := rest[2:]
		if end := strings.IndexAny(authority, "/?#"); end >= 0 {
			authority = authority[:end]
		}
		b.WriteString("//")
		b.WriteString(encodeAuthority(authority))
		rest = rest[2+len(authority):]
	}

	p, suffix := splitSuffix(rest)
	b.WriteString(escape(p, pathSafe))

	if strings.HasPrefix(suffix, "?") {
		query, fragment := suffix, ""
		if i := strings.IndexByte(suffix, '#'); i >= 0 {
			query, fragment = suffix[:i], suffix[i:]
		}
		b.WriteByte('?')
		b.WriteString(escape(query[1:], querySafe))
		suffix = fragment
	}
	if strings.HasPrefix(suffix, "#") {
		b.WriteByte('#')
		b.WriteString(escape(suffix[1:], querySafe))
	}

	return b.String()
}

// encodeAuthority encodes "userinfo@host:port".
func encodeAuthority(authority string) string {
	var userinfo string
	hostport := authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		userinfo, hostport = authority[:i], authority[i+1:]
	}

	host, port := hostport, ""
	if !strings.HasPrefix(hostport, "[") {
		if i := strings.LastIndexByte(hostport, ':'); i >= 0 && isDigits(hostport[i+1:]) {
			host, port = hostport[:i], hostport[i:]
		}
		host = encodeHost(host)
	}

	if userinfo != "" || strings.Contains(authority, "@") {
		return escape(userinfo, userinfoSafe) + "@" + host + port
	}
	return host + port
}

// encodeHost converts an internationalized host name to its ASCII form.
func encodeHost(host string) string {
	if isASCII(host) {
		return host
	}
	ascii, err := idna.Punycode.ToASCII(host)
	if err != nil {
		return escape(host, "")
	}
	return ascii
}

// escape percent-encodes every byte of s that is neither unreserved nor in
// safe. Well-formed %XX sequences pass through untouched.
func escape(s, safe string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		case c < 0x80 && (isUnreserved(c) || strings.IndexByte(safe, c) >= 0):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0F])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
