package flagbind

import (
	"strings"

	"github.com/eugenenazirov/flagbind/internal/schema"
)

// normalizeArgs rewrites argv before the tokenizer sees it so the
// space-separated surfaces parse with a one-value-per-occurrence flag
// library: "--tags a b c" becomes "--tags=a --tags=b --tags=c" and
// "--debug yes" becomes "--debug=yes". A list flag followed by no values is
// dropped from argv and reported in bareLists so the caller can mark it as
// supplied with zero elements. Everything else, including unknown flags,
// passes through untouched for the tokenizer to accept or reject.
func normalizeArgs(args []string, fields []schema.Field) (out []string, bareLists map[string]bool) {
	kinds := make(map[string]schema.Kind, len(fields))
	for _, f := range fields {
		kinds[f.FlagName] = f.Tag.Kind
	}
	bareLists = make(map[string]bool)
	out = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, ok := longFlagName(tok)
		if !ok {
			out = append(out, tok)
			continue
		}
		switch kinds[name] {
		case schema.KindList:
			n := 0
			for i+1+n < len(args) && !isFlagToken(args[i+1+n]) {
				n++
			}
			if n == 0 {
				bareLists[name] = true
				continue
			}
			for _, v := range args[i+1 : i+1+n] {
				out = append(out, "--"+name+"="+v)
			}
			i += n
		case schema.KindBool:
			// Bool flags consume at most one following non-flag token.
			if i+1 < len(args) && !isFlagToken(args[i+1]) {
				out = append(out, "--"+name+"="+args[i+1])
				i++
			} else {
				out = append(out, tok)
			}
		default:
			out = append(out, tok)
		}
	}
	return out, bareLists
}

// longFlagName extracts the flag name from a bare "--name" token. Tokens in
// "--name=value" form need no rewriting and are not matched.
func longFlagName(tok string) (string, bool) {
	if !strings.HasPrefix(tok, "--") || tok == "--" || strings.Contains(tok, "=") {
		return "", false
	}
	return tok[2:], true
}

func isFlagToken(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-"
}
