package drawtypes

import (
	"testing"

	"github.com/polybar-go/bard/internal/element"
)

func TestGetTextTruncation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		ellipsis bool
		maxlen   int
		want     string
	}{
		{"ellipsis-exact-fit", "abcd", true, 3, "..."},
		{"no-truncation-needed", "abc", true, 3, "abc"},
		{"hard-cut-no-ellipsis", "abcdefgh", false, 3, "abc"},
		{"ellipsis-keeps-prefix", "abcdefgh", true, 4, "a..."},
		{"ellipsis-longer-prefix", "abcdefgh", true, 7, "abcd..."},
		{"exact-length-no-truncation", "abcdefgh", true, 8, "abcdefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLabel(tt.text)
			l.Ellipsis = tt.ellipsis
			l.MaxLen = tt.maxlen
			got := l.GetText()
			if got != tt.want {
				t.Errorf("GetText() = %q, want %q", got, tt.want)
			}
			if len(got) > tt.maxlen {
				t.Errorf("GetText() length %d exceeds maxlen %d", len(got), tt.maxlen)
			}
		})
	}
}

func TestReplaceTokenMinMaxSuffix(t *testing.T) {
	l := NewLabel("%percentage%")
	l.Tokens = []Token{{Name: "%percentage%", Min: 3, Max: 5, Suffix: "%"}}

	l.ReplaceToken("%percentage%", "7")
	if got := l.Tokenized; got != "  7" {
		t.Errorf("min-padded = %q, want %q", got, "  7")
	}

	l.ResetTokens()
	l.ReplaceToken("%percentage%", "123456")
	if got := l.Tokenized; got != "12345%" {
		t.Errorf("max-truncated = %q, want %q", got, "12345%")
	}
}

func TestReplaceTokenAbsent(t *testing.T) {
	l := NewLabel("static text")
	l.ReplaceToken("%missing%", "x")
	if l.Tokenized != "static text" {
		t.Errorf("Tokenized changed when token absent: %q", l.Tokenized)
	}
}

func TestReplaceDefinedValues(t *testing.T) {
	base := NewLabel("base")
	fg, _ := element.ParseColor("#ff0000")
	override := NewLabel("override")
	override.Foreground = fg
	override.MaxLen = 10

	base.ReplaceDefinedValues(override)
	if !base.Foreground.IsSet() || base.Foreground.ARGB() != fg.ARGB() {
		t.Error("Foreground not overwritten by ReplaceDefinedValues")
	}
	if base.MaxLen != 10 {
		t.Errorf("MaxLen = %d, want 10", base.MaxLen)
	}
}

func TestCopyUndefinedDoesNotClobber(t *testing.T) {
	own, _ := element.ParseColor("#00ff00")
	fallbackFg, _ := element.ParseColor("#ff0000")

	specific := NewLabel("specific")
	specific.Foreground = own
	fallback := NewLabel("fallback")
	fallback.Foreground = fallbackFg
	fallback.Font = 2

	specific.CopyUndefined(fallback)
	if specific.Foreground.ARGB() != own.ARGB() {
		t.Error("CopyUndefined clobbered an already-set field")
	}
	if specific.Font != 2 {
		t.Errorf("Font = %d, want 2 (copied from fallback)", specific.Font)
	}
}

func TestParseLabelTextExtractsTokens(t *testing.T) {
	text, tokens := ParseLabelText("%percentage:3:5:%% used")
	if text != "%percentage%% used" {
		t.Errorf("text = %q", text)
	}
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1: %+v", len(tokens), tokens)
	}
	tok := tokens[0]
	if tok.Name != "%percentage%" || tok.Min != 3 || tok.Max != 5 {
		t.Errorf("token = %+v, want name=%%percentage%% min=3 max=5", tok)
	}
}

func TestParseLabelTextIgnoresFormatBlocks(t *testing.T) {
	text, tokens := ParseLabelText("%{F#ff0000}hello%{F-}")
	if text != "%{F#ff0000}hello%{F-}" {
		t.Errorf("text mutated: %q", text)
	}
	if len(tokens) != 0 {
		t.Errorf("got %d tokens, want 0 (format blocks are not tokens): %+v", len(tokens), tokens)
	}
}

func TestParseLabelTextBareToken(t *testing.T) {
	text, tokens := ParseLabelText("%title%")
	if text != "%title%" {
		t.Errorf("text = %q, want unchanged", text)
	}
	if len(tokens) != 1 || tokens[0].Name != "%title%" || tokens[0].Min != 0 || tokens[0].Max != 0 {
		t.Errorf("tokens = %+v, want single bare %%title%% token", tokens)
	}
}
