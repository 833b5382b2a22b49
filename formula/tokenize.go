package formula

import "github.com/xuri/efp"

// tokenize runs text (excluding the leading '=') through the same
// Excel-formula tokenizer excelize uses, and drops whitespace tokens —
// this grammar has no whitespace-sensitive operators (range union or
// intersection) to preserve them for.
func tokenize(text string) []efp.Token {
	tokens := efp.ExcelParser().Parse(text)
	out := make([]efp.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.TType == efp.TokenTypeWhiteSpace {
			continue
		}
		out = append(out, tok)
	}
	return out
}
