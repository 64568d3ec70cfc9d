// Package drawtypes implements the bar's small set of renderable value
// types: labels with token substitution, ramps, progress bars, icon sets,
// and frame animations (spec.md §4.5's Builder composes these into format
// strings).
package drawtypes

import (
	"strings"

	"github.com/polybar-go/bard/internal/element"
)

// Token is a single "%name:min:max:suffix%" placeholder parsed out of a
// label's configured text.
type Token struct {
	Name   string // includes the surrounding '%'
	Min    int
	Max    int
	Suffix string
}

// SideValues is a left/right pair used for padding and margin.
type SideValues struct {
	Left, Right int
}

// Label is one styled, tokenized piece of module output.
type Label struct {
	Text       string
	Tokenized  string
	Foreground element.Color
	Background element.Color
	Underline  element.Color
	Overline   element.Color
	Font       uint32
	Padding    SideValues
	Margin     SideValues
	MaxLen     int
	Ellipsis   bool
	Tokens     []Token
}

// NewLabel returns a Label with Tokenized initialized from text and no
// tokens registered; use ParseLabelText to extract tokens from configured
// text instead when the source string contains "%name:min:max:suffix%"
// placeholders.
func NewLabel(text string) *Label {
	return &Label{Text: text, Tokenized: text, Ellipsis: true}
}

// IsSet reports whether the label currently has non-empty rendered text.
func (l *Label) IsSet() bool { return l.Tokenized != "" }

// Clone returns a deep-enough copy safe to mutate independently (token
// substitutions on the clone never affect the original).
func (l *Label) Clone() *Label {
	tokens := make([]Token, len(l.Tokens))
	copy(tokens, l.Tokens)
	clone := *l
	clone.Tokens = tokens
	return &clone
}

// ResetTokens restores Tokenized to the original, unsubstituted Text.
func (l *Label) ResetTokens() {
	l.Tokenized = l.Text
}

// HasToken reports whether token appears literally in the original Text.
func (l *Label) HasToken(token string) bool {
	return strings.Contains(l.Text, token)
}

// ReplaceToken substitutes every occurrence of token in Tokenized with
// replacement, first truncating-and-suffixing or left-padding replacement
// to satisfy the token's max/min width if one was registered for it.
func (l *Label) ReplaceToken(token, replacement string) {
	if !l.HasToken(token) {
		return
	}
	for _, tok := range l.Tokens {
		if tok.Name != token {
			continue
		}
		replacement = applyWidth(tok, replacement)
		l.Tokenized = strings.ReplaceAll(l.Tokenized, token, replacement)
	}
}

// applyWidth truncates-and-suffixes or left-pads s to satisfy tok's
// min/max, matching the original's precedence: max wins over min when a
// token somehow specifies both and the value is too long.
func applyWidth(tok Token, s string) string {
	if tok.Max != 0 && len(s) > tok.Max {
		return s[:tok.Max] + tok.Suffix
	}
	if tok.Min != 0 && len(s) < tok.Min {
		return strings.Repeat(" ", tok.Min-len(s)) + s
	}
	return s
}

// ReplaceDefinedValues overlays every non-zero-valued field of other onto l,
// overwriting l's own value. Used when a module-specific label should take
// precedence over a shared default.
func (l *Label) ReplaceDefinedValues(other *Label) {
	if other.Foreground.IsSet() {
		l.Foreground = other.Foreground
	}
	if other.Background.IsSet() {
		l.Background = other.Background
	}
	if other.Underline.IsSet() {
		l.Underline = other.Underline
	}
	if other.Overline.IsSet() {
		l.Overline = other.Overline
	}
	if other.Font != 0 {
		l.Font = other.Font
	}
	if other.Padding.Left != 0 {
		l.Padding.Left = other.Padding.Left
	}
	if other.Padding.Right != 0 {
		l.Padding.Right = other.Padding.Right
	}
	if other.Margin.Left != 0 {
		l.Margin.Left = other.Margin.Left
	}
	if other.Margin.Right != 0 {
		l.Margin.Right = other.Margin.Right
	}
	if other.MaxLen != 0 {
		l.MaxLen = other.MaxLen
		l.Ellipsis = other.Ellipsis
	}
}

// CopyUndefined overlays other's fields onto l only where l's own field is
// still at its zero value. Used when a default label should fill in gaps
// left by a more specific one, without clobbering what it already set.
func (l *Label) CopyUndefined(other *Label) {
	if !l.Foreground.IsSet() && other.Foreground.IsSet() {
		l.Foreground = other.Foreground
	}
	if !l.Background.IsSet() && other.Background.IsSet() {
		l.Background = other.Background
	}
	if !l.Underline.IsSet() && other.Underline.IsSet() {
		l.Underline = other.Underline
	}
	if !l.Overline.IsSet() && other.Overline.IsSet() {
		l.Overline = other.Overline
	}
	if l.Font == 0 && other.Font != 0 {
		l.Font = other.Font
	}
	if l.Padding.Left == 0 && other.Padding.Left != 0 {
		l.Padding.Left = other.Padding.Left
	}
	if l.Padding.Right == 0 && other.Padding.Right != 0 {
		l.Padding.Right = other.Padding.Right
	}
	if l.Margin.Left == 0 && other.Margin.Left != 0 {
		l.Margin.Left = other.Margin.Left
	}
	if l.Margin.Right == 0 && other.Margin.Right != 0 {
		l.Margin.Right = other.Margin.Right
	}
	if l.MaxLen == 0 && other.MaxLen != 0 {
		l.MaxLen = other.MaxLen
		l.Ellipsis = other.Ellipsis
	}
}

// GetText returns Tokenized, truncated to MaxLen if set and exceeded. With
// Ellipsis set, the last three characters of the truncated result become
// "..." (so MaxLen is never exceeded); without it, the text is cut flush.
func (l *Label) GetText() string {
	if l.MaxLen == 0 || len(l.Tokenized) <= l.MaxLen {
		return l.Tokenized
	}
	if !l.Ellipsis || l.MaxLen < 3 {
		return l.Tokenized[:l.MaxLen]
	}
	return l.Tokenized[:l.MaxLen-3] + "..."
}

// ParseLabelText extracts "%name:min:max:suffix%" tokens from raw
// configuration text, stripping the min/max/suffix qualifiers back down to
// a bare "%name%" in the returned text and registering each found token.
// "%{...}" format blocks are left untouched (a leading '{' after '%' is not
// a token).
func ParseLabelText(raw string) (text string, tokens []Token) {
	text = raw
	line := raw
	for {
		start := strings.IndexByte(line, '%')
		if start == -1 {
			break
		}
		end := strings.IndexByte(line[start+1:], '%')
		if end == -1 {
			break
		}
		end = start + 1 + end
		tokenStr := line[start : end+1]

		if len(tokenStr) > 1 && tokenStr[1] == '{' {
			line = line[start+1:]
			continue
		}
		line = line[:start] + line[end+1:]

		tok := Token{Name: tokenStr}
		colon := strings.IndexByte(tokenStr, ':')
		if colon == -1 {
			tokens = append(tokens, tok)
			continue
		}

		bareName := tokenStr[:colon] + "%"
		text = strings.ReplaceAll(text, tokenStr, bareName)
		tok.Name = bareName

		rest := tokenStr[colon+1:]
		minStr, rest, hasMax := cutColon(rest)
		min, ok := atoiNonNegative(minStr)
		if !ok {
			tokens = append(tokens, tok)
			continue
		}
		tok.Min = min
		if !hasMax {
			tokens = append(tokens, tok)
			continue
		}

		maxStr, rest, hasSuffix := cutColon(rest)
		max, ok := atoiNonNegative(maxStr)
		if ok {
			if max < tok.Min {
				max = 0
			}
			tok.Max = max
		}
		if hasSuffix {
			// rest still has the trailing '%' from the original token.
			tok.Suffix = strings.TrimSuffix(rest, "%")
		}
		tokens = append(tokens, tok)
	}
	return text, tokens
}

func cutColon(s string) (before, after string, found bool) {
	i := strings.IndexByte(s, ':')
	if i == -1 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func atoiNonNegative(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
