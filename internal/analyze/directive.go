package analyze

import (
	"strings"
)

// ParseDirective parses a single comment line of the form
//
//	//mixin:verb arg1 arg2 key=value key2=a,b
//
// Arguments are separated by whitespace outside square brackets, so generic
// references such as "Cache[Order, int]" stay intact. ok is false if text
// is not a mixin directive.
func ParseDirective(text, pos string) (Directive, bool) {
	if !strings.HasPrefix(text, DirectivePrefix) {
		return Directive{}, false
	}

	fields := splitOutsideBrackets(strings.TrimPrefix(text, DirectivePrefix), func(r byte) bool {
		return r == ' ' || r == '\t'
	})
	if len(fields) == 0 || fields[0] == "" {
		return Directive{}, false
	}

	d := Directive{Verb: fields[0], Pos: pos}

	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok && !strings.ContainsAny(k, "[]") {
			if d.Options == nil {
				d.Options = make(map[string]string)
			}

			d.Options[k] = v

			continue
		}

		d.Args = append(d.Args, f)
	}

	return d, true
}

// Option returns the value of a key=value argument.
func (d Directive) Option(key string) (string, bool) {
	v, ok := d.Options[key]
	return v, ok
}

// SplitList splits a comma separated list of type references, keeping
// commas inside square brackets.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := splitOutsideBrackets(s, func(r byte) bool { return r == ',' })
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

func splitOutsideBrackets(s string, sep func(byte) bool) []string {
	var (
		out   []string
		depth int
		start = -1
	)

	flush := func(end int) {
		if start >= 0 {
			out = append(out, s[start:end])
			start = -1
		}
	}

	for i := range len(s) {
		c := s[i]

		switch {
		case c == '[':
			depth++
		case c == ']':
			depth--
		case depth == 0 && sep(c):
			flush(i)
			continue
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(s))

	return out
}
