package review

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// maskKind is one class of value hidden from the model. Label becomes the
// placeholder prefix: [IPV4:a3f2], [EMAIL:09bc].
type maskKind struct {
	name  string
	label string
	re    *regexp.Regexp
}

// Order matters: a kind only sees text the kinds before it left alone, so
// the specific shapes (keys, tokens) run before the general ones.
var maskKinds = []maskKind{
	{"private_key", "PRIVATE_KEY", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)},
	{"aws_key", "AWS_KEY", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"jwt", "JWT", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`)},
	{"bearer", "TOKEN", regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`)},
	{"api_key", "SECRET", regexp.MustCompile(`(?i)(?:api[_-]?key|token|secret)["']?\s*[:=]\s*["']?[A-Za-z0-9_\-]{8,}`)},
	{"url_credentials", "CREDENTIALS", regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`)},
	{"email", "EMAIL", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{"ipv4", "IPV4", regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)},
	{"mac_address", "MAC", regexp.MustCompile(`\b(?:[0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}\b`)},
	{"uuid", "UUID", regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)},
}

// MaskNone disables masking when it is the only configured kind.
const MaskNone = "none"

// DefaultMaskKinds is used when no kinds are configured. mac_address and
// uuid are left out: in shell history they are usually device and resource
// names the review needs to see.
func DefaultMaskKinds() []string {
	return []string{"private_key", "aws_key", "jwt", "bearer", "api_key", "url_credentials", "email", "ipv4"}
}

// MaskKinds lists every kind NewMasker accepts, in application order.
func MaskKinds() []string {
	names := make([]string, len(maskKinds))
	for i, k := range maskKinds {
		names[i] = k.name
	}
	return names
}

// Masker replaces hosts, addresses and credentials in commands with short
// placeholders before they are sent to a model. Equal values get equal
// placeholders, so the model can still tell that two commands talk to the
// same host. A Masker is not safe for concurrent use.
type Masker struct {
	kinds  []maskKind
	values map[string]string // original value -> placeholder
}

// NewMasker creates a Masker for the named kinds. No names selects
// DefaultMaskKinds; the single name "none" disables masking. Unknown names
// are an error.
func NewMasker(names []string) (*Masker, error) {
	if len(names) == 0 {
		names = DefaultMaskKinds()
	}
	m := &Masker{values: make(map[string]string)}
	if len(names) == 1 && strings.EqualFold(names[0], MaskNone) {
		return m, nil
	}

	for _, k := range maskKinds {
		if slices.Contains(names, k.name) {
			m.kinds = append(m.kinds, k)
		}
	}
	for _, name := range names {
		if !slices.Contains(MaskKinds(), name) {
			return nil, fmt.Errorf("unknown mask kind %q (supported: %s)", name, strings.Join(MaskKinds(), ", "))
		}
	}
	return m, nil
}

// Mask returns text with every configured kind replaced.
func (m *Masker) Mask(text string) string {
	for _, k := range m.kinds {
		text = k.re.ReplaceAllStringFunc(text, func(v string) string {
			return m.placeholder(k.label, v)
		})
	}
	return text
}

// MaskAll masks each command and returns the new slice.
func (m *Masker) MaskAll(commands []string) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = m.Mask(c)
	}
	return out
}

// Masked returns the number of distinct values masked so far.
func (m *Masker) Masked() int {
	return len(m.values)
}

func (m *Masker) placeholder(label, value string) string {
	if p, ok := m.values[value]; ok {
		return p
	}
	sum := sha256.Sum256([]byte(value))
	p := fmt.Sprintf("[%s:%s]", label, hex.EncodeToString(sum[:2]))
	m.values[value] = p
	return p
}
