package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/kurikula/internal/schema"
)

// ExtractConforming pulls the first JSON value out of a model reply, checks
// it against s and only then decodes it into T. Any mismatch is reported as
// ErrInvalidOutput wrapping the *schema.ValidationError that located it.
func ExtractConforming[T any](raw string, s schema.Schema) (T, error) {
	var zero T

	payload, err := sanitizeReply(raw)
	if err != nil {
		return zero, err
	}

	parsed, err := schema.NewValidator(s).Decode([]byte(payload))
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	// Re-encode the checked tree so whole floats like 2.0 decode into int fields.
	normalized, err := json.Marshal(parsed)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	var result T
	if err := json.Unmarshal(normalized, &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return result, nil
}

// sanitizeReply copies the first balanced object or array out of raw.
// Prose and markdown fences around it are dropped, comments inside it are
// removed and bare fractions like .5 gain their leading zero.
func sanitizeReply(raw string) (string, error) {
	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON value found in response", ErrInvalidOutput)
	}

	sc := replyScanner{src: raw, pos: start}
	out, ok := sc.scan()
	if !ok {
		return "", fmt.Errorf("%w: unterminated JSON value in response", ErrInvalidOutput)
	}
	return out, nil
}

type replyScanner struct {
	src   string
	pos   int
	out   strings.Builder
	depth int
	last  byte // last significant byte written outside a string
}

func (sc *replyScanner) scan() (string, bool) {
	sc.out.Grow(len(sc.src) - sc.pos)
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		switch {
		case c == '"':
			sc.copyString()
			sc.last = '"'
			continue
		case c == '/' && sc.peek(1) == '/':
			sc.skipUntil("\n")
			continue
		case c == '/' && sc.peek(1) == '*':
			sc.pos += 2
			sc.skipUntil("*/")
			sc.pos += 2
			continue
		case c == '.' && isDigit(sc.peek(1)) && opensNumber(sc.last):
			sc.out.WriteByte('0')
		case c == '{' || c == '[':
			sc.depth++
		case c == '}' || c == ']':
			sc.depth--
		}

		sc.out.WriteByte(c)
		sc.pos++
		if !isSpace(c) {
			sc.last = c
		}
		if sc.depth == 0 {
			return sc.out.String(), true
		}
	}
	return "", false
}

// copyString writes a quoted string verbatim, honouring escapes.
func (sc *replyScanner) copyString() {
	sc.out.WriteByte('"')
	sc.pos++
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		sc.out.WriteByte(c)
		sc.pos++
		switch c {
		case '\\':
			if sc.pos < len(sc.src) {
				sc.out.WriteByte(sc.src[sc.pos])
				sc.pos++
			}
		case '"':
			return
		}
	}
}

func (sc *replyScanner) skipUntil(marker string) {
	if i := strings.Index(sc.src[sc.pos:], marker); i >= 0 {
		sc.pos += i
		return
	}
	sc.pos = len(sc.src)
}

func (sc *replyScanner) peek(n int) byte {
	if sc.pos+n < len(sc.src) {
		return sc.src[sc.pos+n]
	}
	return 0
}

func opensNumber(prev byte) bool {
	switch prev {
	case ':', ',', '[', '-':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
