package resolve

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fentz26/taskwtools/internal/fql"
)

// Kind is the identifier grammar a token matched.
type Kind int

const (
	KindID Kind = iota
	KindUUID
	KindUUIDPrefix
	KindLabel
	KindFQL
	KindDescription
	KindTag
)

func (k Kind) String() string {
	return [...]string{"integer-id", "uuid", "uuid-prefix", "label", "fql", "description", "tag-predicate"}[k]
}

// Token is a classified query argument. Only the fields relevant to Kind
// are set.
type Token struct {
	Raw  string
	Kind Kind

	ID      int
	UUID    uuid.UUID
	Project string
	Label   string

	// Tag predicates: Tag with Exclude false is "+Tag".
	Tag     string
	Exclude bool
}

// Classify assigns raw to the first grammar it satisfies, in order: tag
// predicate, integer id, canonical UUID, UUID prefix, label or label path,
// and finally free description text.
func Classify(raw string) Token {
	tok := Token{Raw: raw}

	if len(raw) > 1 && (raw[0] == '+' || raw[0] == '-') {
		tok.Kind = KindTag
		tok.Tag = raw[1:]
		tok.Exclude = raw[0] == '-'
		return tok
	}

	if n, err := strconv.Atoi(raw); err == nil {
		tok.Kind = KindID
		tok.ID = n
		return tok
	}

	if len(raw) == 36 {
		if u, err := uuid.Parse(raw); err == nil {
			tok.Kind = KindUUID
			tok.UUID = u
			return tok
		}
	}

	if raw != "" && isUUIDPrefix(raw) {
		tok.Kind = KindUUIDPrefix
		tok.setLabel()
		return tok
	}

	if tok.setLabel() {
		if strings.Contains(raw, "/") {
			tok.Kind = KindFQL
		} else {
			tok.Kind = KindLabel
		}
		return tok
	}

	tok.Kind = KindDescription
	return tok
}

// setLabel fills Project and Label when Raw follows the label grammar.
func (t *Token) setLabel() bool {
	if t.Raw == "" || strings.IndexFunc(t.Raw, func(r rune) bool { return !fql.IsLabelChar(r) }) >= 0 {
		return false
	}
	t.Project, t.Label = fql.Split(t.Raw)
	return true
}

func isUUIDPrefix(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F', r == '-':
		default:
			return false
		}
	}
	return true
}

// Tiers lists the lookups to attempt for the token, in order. Integer ids and
// full UUIDs never fall through; a UUID prefix that also reads as a label is
// tried as one before falling back to description search.
func (t Token) Tiers() []Kind {
	switch t.Kind {
	case KindID, KindUUID, KindTag:
		return []Kind{t.Kind}
	case KindUUIDPrefix:
		if t.Label == "" {
			return []Kind{KindUUIDPrefix, KindDescription}
		}
		return []Kind{KindUUIDPrefix, KindLabel, KindDescription}
	case KindLabel, KindFQL:
		return []Kind{t.Kind, KindDescription}
	}
	return []Kind{KindDescription}
}

// Request is a parsed resolver invocation.
type Request struct {
	Tokens  []string
	Include []string
	Exclude []string
}

// ParseArgs diverts "+tag" and "-tag" arguments into tag predicates and keeps
// the rest as positional tokens.
func ParseArgs(args []string) Request {
	var req Request
	for _, a := range args {
		tok := Classify(a)
		switch {
		case tok.Kind != KindTag:
			req.Tokens = append(req.Tokens, a)
		case tok.Exclude:
			req.Exclude = append(req.Exclude, tok.Tag)
		default:
			req.Include = append(req.Include, tok.Tag)
		}
	}
	return req
}
