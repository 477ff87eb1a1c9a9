package parser

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"minipy/interpreter-go/pkg/ast"
)

var (
	minInt64 = big.NewInt(-1 << 63)
	maxInt64 = big.NewInt(1<<63 - 1)
)

func (ctx *parseContext) integerValue(node *sitter.Node) (*big.Int, error) {
	content := ctx.text(node)
	lower := strings.ToLower(strings.ReplaceAll(content, "_", ""))
	if strings.HasSuffix(lower, "j") || strings.HasSuffix(lower, "l") {
		return nil, ctx.errorf(node, "invalid integer literal %q", content)
	}

	var (
		base   = 10
		digits = lower
	)
	switch {
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	}
	if digits == "" {
		return nil, ctx.errorf(node, "invalid integer literal %q", content)
	}

	value := new(big.Int)
	if _, ok := value.SetString(digits, base); !ok {
		return nil, ctx.errorf(node, "invalid integer literal %q", content)
	}
	return value, nil
}

func (ctx *parseContext) integerFits(node *sitter.Node) bool {
	value, err := ctx.integerValue(node)
	return err == nil && value.Cmp(maxInt64) <= 0
}

func (ctx *parseContext) parseIntegerLiteral(node *sitter.Node, negate bool) (*ast.IntegerLiteral, error) {
	value, err := ctx.integerValue(node)
	if err != nil {
		return nil, err
	}
	if negate {
		value.Neg(value)
	}
	if value.Cmp(minInt64) < 0 || value.Cmp(maxInt64) > 0 {
		return nil, ctx.errorf(node, "integer literal %s out of range", ctx.text(node))
	}
	lit := ast.NewIntegerLiteral(value.Int64())
	annotateSpan(lit, node)
	return lit, nil
}

// parseStringLiteral handles single strings and adjacent-literal
// concatenation ("a" "b").
func (ctx *parseContext) parseStringLiteral(node *sitter.Node) (ast.Expression, error) {
	if node.Kind() == "concatenated_string" {
		var b strings.Builder
		for _, part := range namedChildren(node) {
			text, err := ctx.decodeString(part)
			if err != nil {
				return nil, err
			}
			b.WriteString(text)
		}
		return annotateExpression(ast.NewStringLiteral(b.String()), node), nil
	}
	text, err := ctx.decodeString(node)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewStringLiteral(text), node), nil
}

func (ctx *parseContext) decodeString(node *sitter.Node) (string, error) {
	if node.Kind() != "string" {
		return "", ctx.errorf(node, "unsupported string form %s", node.Kind())
	}
	var start, end *sitter.Node
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "string_start":
			start = child
		case "string_end":
			end = child
		case "interpolation":
			return "", ctx.errorf(child, "f-strings are not supported")
		}
	}
	if start == nil || end == nil {
		return "", ctx.errorf(node, "malformed string literal")
	}

	delimiter := ctx.text(start)
	prefix := strings.ToLower(strings.TrimRight(delimiter, `'"`))
	if strings.ContainsAny(prefix, "fb") {
		return "", ctx.errorf(node, "string prefix %q is not supported", prefix)
	}

	body := string(ctx.source[start.EndByte():end.StartByte()])
	if strings.Contains(prefix, "r") {
		return body, nil
	}
	decoded, ok := decodeEscapes(body)
	if !ok {
		return "", ctx.errorf(node, "invalid escape sequence in string literal")
	}
	return decoded, nil
}

// decodeEscapes expands backslash escapes. Unknown escapes are kept as
// written, backslash included.
func decodeEscapes(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch esc := s[i]; esc {
		case '\n':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(esc)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[esc]
			if i+1+width > len(s) {
				return "", false
			}
			code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", false
			}
			b.WriteRune(rune(code))
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			code, _ := strconv.ParseUint(s[i:j], 8, 32)
			b.WriteRune(rune(code))
			i = j - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String(), true
}
