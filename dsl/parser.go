// Package dsl 定义 .meme 字幕脚本的语法。
//
// 一个脚本描述一张图：背景（内置模板或图片文件）、画布约束与若干字幕。
//
//	meme "Drake" {
//	  template "Drake Hotline Bling"
//	  caption "Hello, ${user.name}" {
//	    at: 75% 25%
//	    color: #ffffff
//	  }
//	  select 0
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{4}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Script is the root AST node of a .meme file.
type Script struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       StringLiteral  `parser:"Newline* 'meme' @String"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement is one top-level instruction inside the meme block.
type Statement struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Template  *StringLiteral `parser:"  'template' @String"`
	Image     *StringLiteral `parser:"| 'image' @String"`
	Container *string        `parser:"| 'container' @Number"`
	Canvas    *CanvasSize    `parser:"| @@"`
	Caption   *Caption       `parser:"| @@"`
	Select    *string        `parser:"| 'select' @Number"`
}

// Kind returns the statement keyword.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Template != nil:
		return "template"
	case s.Image != nil:
		return "image"
	case s.Container != nil:
		return "container"
	case s.Canvas != nil:
		return "canvas"
	case s.Caption != nil:
		return "caption"
	case s.Select != nil:
		return "select"
	default:
		return "unknown"
	}
}

// CanvasSize sets the surface size used before any image is loaded.
type CanvasSize struct {
	Width  string `parser:"'canvas' @Number"`
	Height string `parser:"@Number"`
}

// Caption declares a caption with optional style properties.
type Caption struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Text       StringLiteral  `parser:"'caption' @String"`
	Properties []*Property    `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// Property uses colon syntax (key: value [value]).
type Property struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Key    string         `parser:"@Ident ':'"`
	Values []*Value       `parser:"@@ ( ','? @@ )*"`
}

// Value is a single property operand.
type Value struct {
	Number *string        `parser:"  @Number"`
	Color  *string        `parser:"| @Color"`
	String *StringLiteral `parser:"| @String"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the operand as written, strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.String != nil:
		return string(*v.String)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Unit 是数值的单位后缀。
type Unit string

const (
	UnitNone    Unit = ""
	UnitPixel   Unit = "px"
	UnitPercent Unit = "%"
)

// ParseNumber 拆分带单位的数值，例如 "75%"、"12px"、"40"。
func ParseNumber(raw string) (float64, Unit, error) {
	unit := UnitNone
	switch {
	case strings.HasSuffix(raw, "%"):
		unit = UnitPercent
	case strings.HasSuffix(raw, "px"):
		unit = UnitPixel
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(raw, string(unit)), 64)
	if err != nil {
		return 0, unit, fmt.Errorf("数值 %q 无法解析: %w", raw, err)
	}
	return f, unit, nil
}

// Parse parses a script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

// ParseFile parses a script, reporting positions against filename.
func ParseFile(filename string, r io.Reader) (*Script, error) {
	return scriptParser.Parse(filename, r)
}
