package graph

import (
	"fmt"
	"strings"
)

// Kind is the entity type encoded as a token prefix.
type Kind string

const (
	KindProject  Kind = "Project"
	KindTask     Kind = "Task"
	KindResource Kind = "Resource"
)

const hexDigits = "0123456789ABCDEF"

// Token derives the engine identifier for an entity. It depends on the
// internal id only: ASCII letters and digits are kept, every other byte
// becomes "_XX", so distinct ids always produce distinct tokens.
func Token(kind Kind, id string) string {
	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte('_')
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if isAlnum(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('_')
		b.WriteByte(hexDigits[ch>>4])
		b.WriteByte(hexDigits[ch&0x0F])
	}
	return b.String()
}

// ParseToken inverts Token. Unknown prefixes, malformed escapes and any
// spelling Token would not produce for the decoded id are rejected.
func ParseToken(token string) (Kind, string, error) {
	prefix, encoded, ok := strings.Cut(token, "_")
	if !ok || encoded == "" {
		return "", "", fmt.Errorf("malformed token %q", token)
	}

	kind := Kind(prefix)
	switch kind {
	case KindProject, KindTask, KindResource:
	default:
		return "", "", fmt.Errorf("unknown token kind %q in %q", prefix, token)
	}

	var id strings.Builder
	for i := 0; i < len(encoded); i++ {
		ch := encoded[i]
		if isAlnum(ch) {
			id.WriteByte(ch)
			continue
		}
		if ch != '_' || i+2 >= len(encoded) {
			return "", "", fmt.Errorf("malformed token %q", token)
		}
		hi := strings.IndexByte(hexDigits, encoded[i+1])
		lo := strings.IndexByte(hexDigits, encoded[i+2])
		if hi < 0 || lo < 0 {
			return "", "", fmt.Errorf("malformed escape in token %q", token)
		}
		id.WriteByte(byte(hi<<4 | lo))
		i += 2
	}

	if Token(kind, id.String()) != token {
		return "", "", fmt.Errorf("non-canonical token %q", token)
	}
	return kind, id.String(), nil
}

func isAlnum(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}
