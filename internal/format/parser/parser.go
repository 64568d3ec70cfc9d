// Package parser implements the recursive-descent parser for the bar's
// in-band formatting escape syntax (spec.md §4.1). It is incremental: the
// caller polls HasNext then takes Next, so a malformed tag only poisons the
// single element it belongs to.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/polybar-go/bard/internal/element"
)

// contextWindow is how many preceding characters are captured for error
// context strings.
const contextWindow = 12

// Parser is a single-use, stateful recursive-descent scanner over one format
// string. Create with New and call Set before (re)using.
type Parser struct {
	input   string
	pos     int
	inBlock bool

	queue      []element.Element
	pendingErr error
}

// New returns a ready-to-use Parser with no input set.
func New() *Parser {
	return &Parser{}
}

// Set resets parser state and installs a new string to parse.
func (p *Parser) Set(input string) {
	p.input = input
	p.pos = 0
	p.inBlock = false
	p.queue = nil
	p.pendingErr = nil
}

// HasNext reports whether a call to Next will produce an element or an
// error. It returns false only once the input is fully consumed.
func (p *Parser) HasNext() bool {
	for len(p.queue) == 0 && p.pendingErr == nil {
		if p.pos >= len(p.input) && !p.inBlock {
			return false
		}
		p.fill()
	}
	return true
}

// Next parses (if necessary) and returns the next element, or the error
// produced while attempting to parse it. On error no more than the
// offending tag has been consumed; subsequent calls resume normally.
func (p *Parser) Next() (element.Element, error) {
	if !p.HasNext() {
		return element.Element{}, io.EOF
	}
	if len(p.queue) > 0 {
		e := p.queue[0]
		p.queue = p.queue[1:]
		return e, nil
	}
	err := p.pendingErr
	p.pendingErr = nil
	return element.Element{}, err
}

// Parse consumes the remaining input and returns every element along with
// every recoverable error encountered (each error corresponds to one
// dropped tag). A nil error slice means the stream was well-formed.
func (p *Parser) Parse() ([]element.Element, []error) {
	var elems []element.Element
	var errs []error
	for p.HasNext() {
		e, err := p.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		elems = append(elems, e)
	}
	return elems, errs
}

// ParseString is a convenience wrapper around New/Set/Parse.
func ParseString(input string) ([]element.Element, []error) {
	p := New()
	p.Set(input)
	return p.Parse()
}

// fill advances the parser by exactly one unit of progress: entering a
// block, leaving a block, or producing a text run / single tag. It never
// blocks and always makes forward progress given non-empty remaining input.
func (p *Parser) fill() {
	if p.inBlock {
		p.fillTag()
		return
	}
	p.fillText()
}

func (p *Parser) fillText() {
	if p.pos >= len(p.input) {
		return
	}
	if strings.HasPrefix(p.input[p.pos:], "%{") {
		p.pos += 2
		p.inBlock = true
		return
	}
	start := p.pos
	idx := strings.Index(p.input[p.pos:], "%{")
	if idx == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += idx
	}
	text := p.input[start:p.pos]
	if text != "" {
		p.push(element.Element{Kind: element.ElementText, Text: text})
	}
}

func (p *Parser) fillTag() {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		p.pendingErr = newErr("unterminated", p.context(), "missing '}' terminator")
		p.inBlock = false
		return
	}
	if p.cur() == '}' {
		p.pos++
		p.inBlock = false
		return
	}

	c := p.cur()
	switch {
	case c == 'B':
		p.pos++
		p.parseColorTag(element.TagSetBg)
	case c == 'F':
		p.pos++
		p.parseColorTag(element.TagSetFg)
	case c == 'u':
		p.pos++
		p.parseColorTag(element.TagSetUl)
	case c == 'o':
		p.pos++
		p.parseColorTag(element.TagSetOl)
	case c == 'U':
		p.pos++
		p.parseLegacyUnderOver()
	case c == 'T':
		p.pos++
		p.parseFont()
	case c == 'O':
		p.pos++
		p.parseOffset()
	case c == 'R':
		p.pos++
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagReverse}})
	case c == 'l':
		p.pos++
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagAlignment, Alignment: element.AlignLeft}})
	case c == 'c':
		p.pos++
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagAlignment, Alignment: element.AlignCenter}})
	case c == 'r':
		p.pos++
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagAlignment, Alignment: element.AlignRight}})
	case c == '+' || c == '-' || c == '!':
		p.parseAttr(c)
	case c == 'P':
		p.pos++
		p.parseControl()
	case c == 'A':
		p.pos++
		p.parseAction()
	default:
		ctx := p.context()
		p.pos++
		p.consumeToken()
		p.pendingErr = newErr("tag", ctx, "unrecognized formatting tag '%%{%c}'", c)
	}
}

func (p *Parser) push(e element.Element) {
	p.queue = append(p.queue, e)
}

func (p *Parser) cur() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) peekAt(off int) byte {
	if p.pos+off >= len(p.input) {
		return 0
	}
	return p.input[p.pos+off]
}

func (p *Parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// consumeToken skips forward to the next space or '}' so parsing can resume
// after a malformed tag without consuming more than that tag.
func (p *Parser) consumeToken() {
	for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '}' {
		p.pos++
	}
}

// readValue consumes and returns the run of characters up to (not
// including) the next space or '}'.
func (p *Parser) readValue() string {
	start := p.pos
	p.consumeToken()
	return p.input[start:p.pos]
}

// context returns a short slice of the input around the current position,
// for error messages.
func (p *Parser) context() string {
	start := p.pos - contextWindow
	if start < 0 {
		start = 0
	}
	end := p.pos + contextWindow
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[start:end]
}

func (p *Parser) parseColorTag(kind element.TagKind) {
	ctx := p.context()
	value := p.readValue()
	color, err := parseColorValue(value)
	if err != nil {
		p.pendingErr = newErr("color", ctx, "%s", err.Error())
		return
	}
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: kind, Color: color}})
}

func parseColorValue(value string) (element.Color, error) {
	if value == "" {
		return element.Reset, nil
	}
	return element.ParseColor(value)
}

func (p *Parser) parseLegacyUnderOver() {
	ctx := p.context()
	value := p.readValue()
	color, err := parseColorValue(value)
	if err != nil {
		p.pendingErr = newErr("color", ctx, "%s", err.Error())
		return
	}
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagSetUl, Color: color}})
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagSetOl, Color: color}})
}

func (p *Parser) parseFont() {
	ctx := p.context()
	value := p.readValue()
	if value == "" || value[0] == '-' {
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagSetFont, Font: 0}})
		return
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		p.pendingErr = newErr("font", ctx, "invalid font index %q", value)
		return
	}
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagSetFont, Font: uint32(n)}})
}

func (p *Parser) parseOffset() {
	ctx := p.context()
	value := p.readValue()
	unit := element.Pixel
	numeric := value
	if strings.HasSuffix(value, "pt") {
		unit = element.Point
		numeric = value[:len(value)-2]
	} else if strings.HasSuffix(value, "px") {
		unit = element.Pixel
		numeric = value[:len(value)-2]
	}
	if numeric == "" {
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagOffset, Offset: element.Extent{Unit: unit}}})
		return
	}
	f, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		p.pendingErr = newErr("offset", ctx, "invalid offset %q", value)
		return
	}
	ext := element.Extent{Value: float32(f), Unit: unit}
	if unit == element.Pixel {
		// Pixel offsets are integral; truncate any fractional component.
		ext.Value = float32(int(f))
	}
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagOffset, Offset: ext}})
}

func (p *Parser) parseAttr(actChar byte) {
	ctx := p.context()
	p.pos++ // consume +/-/!
	var act element.Activation
	switch actChar {
	case '+':
		act = element.ActivationOn
	case '-':
		act = element.ActivationOff
	case '!':
		act = element.ActivationToggle
	}
	c := p.cur()
	var attr element.Attribute
	switch c {
	case 'u':
		attr = element.AttrUnderline
	case 'o':
		attr = element.AttrOverline
	default:
		p.consumeToken()
		p.pendingErr = newErr("attribute", ctx, "unrecognized attribute '%c'", c)
		return
	}
	p.pos++
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagAttr, Act: act, Attr: attr}})
}

func (p *Parser) parseControl() {
	ctx := p.context()
	c := p.cur()
	switch c {
	case 'R':
		p.pos++
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{Kind: element.TagControl, Control: element.ControlResetAll}})
	default:
		p.consumeToken()
		p.pendingErr = newErr("control", ctx, "unrecognized control verb '%c'", c)
	}
}

func (p *Parser) parseAction() {
	ctx := p.context()
	hasDigit := false
	btnNum := 0
	if c := p.cur(); c >= '1' && c <= '9' {
		hasDigit = true
		btnNum = int(c - '0')
		p.pos++
	}

	if p.cur() == ':' {
		// Open form: "A[n]:cmd:"
		p.pos++
		btn := element.ButtonLeft
		if hasDigit {
			b, err := element.ParseButton(btnNum)
			if err != nil {
				p.consumeToken()
				p.pendingErr = newErr("button", ctx, "%s", err.Error())
				return
			}
			btn = b
		}
		cmd, err := p.parseActionCmd()
		if err != nil {
			p.pendingErr = newErr("action", ctx, "%s", err.Error())
			return
		}
		p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{
			Kind: element.TagActionOpen, Button: btn, Command: cmd,
		}})
		return
	}

	// Close form: "A[n]"
	closeBtn := element.ButtonNone
	if hasDigit {
		b, err := element.ParseButton(btnNum)
		if err != nil {
			p.consumeToken()
			p.pendingErr = newErr("button", ctx, "%s", err.Error())
			return
		}
		closeBtn = b
	}
	p.push(element.Element{Kind: element.ElementTag, Tag: element.TagData{
		Kind: element.TagActionClose, CloseButton: closeBtn,
	}})
}

// parseActionCmd reads up to (and consuming) the next unescaped ':',
// unescaping "\:" to a literal colon along the way. It does not stop at
// '}': an action command may contain literal braces.
func (p *Parser) parseActionCmd() (string, error) {
	var sb strings.Builder
	for {
		if p.pos >= len(p.input) {
			return "", newErr("action", p.context(), "missing ':' terminator in action command")
		}
		ch := p.input[p.pos]
		if ch == '\\' && p.peekAt(1) == ':' {
			sb.WriteByte(':')
			p.pos += 2
			continue
		}
		if ch == ':' {
			p.pos++
			return sb.String(), nil
		}
		sb.WriteByte(ch)
		p.pos++
	}
}
