// Package binding pulls the tokens for one declared parameter out of a
// tokenizer and turns them into a value through an interpret.Registry.
//
// Parameters are declared as Specs and validated once, when the command is
// built. Binding never needs to rewind the tokenizer: a failed bind fails the
// whole signature and the next signature gets a fresh tokenizer.
package binding

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/tokenize"
)

// ErrInvalidSpec is returned by Build for a parameter that can never bind.
var ErrInvalidSpec = errors.New("invalid parameter")

// Shape is how many tokens a parameter consumes.
type Shape int

const (
	// ShapeSimple consumes one token.
	ShapeSimple Shape = iota
	// ShapeFixed consumes exactly Size tokens into an array.
	ShapeFixed
	// ShapeVariadic consumes every remaining token into an array.
	ShapeVariadic
	// ShapeRaw consumes the rest of the input as unparsed text.
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeSimple:
		return "simple"
	case ShapeFixed:
		return "fixed"
	case ShapeVariadic:
		return "variadic"
	case ShapeRaw:
		return "raw"
	default:
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// Spec declares one handler parameter. For array shapes Type is the element type.
type Spec struct {
	Name  string
	Type  interpret.Type
	Shape Shape
	Size  int
}

func Simple(name string, t interpret.Type) Spec {
	return Spec{Name: name, Type: t, Shape: ShapeSimple}
}

// Fixed declares an array of exactly n elements of type t.
func Fixed(name string, t interpret.Type, n int) Spec {
	return Spec{Name: name, Type: t, Shape: ShapeFixed, Size: n}
}

// Variadic declares an array taking every remaining token. It must be last.
func Variadic(name string, t interpret.Type) Spec {
	return Spec{Name: name, Type: t, Shape: ShapeVariadic}
}

// Raw declares a text parameter receiving the rest of the input verbatim,
// with surrounding whitespace trimmed. It must be last.
func Raw(name string) Spec {
	return Spec{Name: name, Type: interpret.Text, Shape: ShapeRaw}
}

// Param is a validated, bindable parameter.
type Param interface {
	Name() string
	// TypeHint is the human readable type, e.g. "integer", "integer[3]", "text...".
	TypeHint() string
	// Bind consumes the parameter's tokens. A tokenizer failure is returned
	// as an error wrapping *tokenize.Error.
	Bind(ctx interpret.Context, tz *tokenize.Tokenizer) (any, error)
}

// Build validates spec against reg. last tells whether spec is the final
// parameter of its signature.
func Build(reg *interpret.Registry, spec Spec, last bool) (Param, error) {
	if spec.Type.IsArray() {
		return nil, fmt.Errorf("%w %q: declare the element type, not %s", ErrInvalidSpec, spec.Name, spec.Type)
	}
	hint, err := reg.TypeHint(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec.Name, err)
	}
	base := param{name: spec.Name, elem: spec.Type, reg: reg}

	switch spec.Shape {
	case ShapeSimple:
		base.hint = hint
		return &simple{base}, nil
	case ShapeFixed:
		if spec.Size < 2 {
			return nil, fmt.Errorf("%w %q: fixed array size %d, need at least 2", ErrInvalidSpec, spec.Name, spec.Size)
		}
		base.hint = hint + "[" + strconv.Itoa(spec.Size) + "]"
		return &fixed{param: base, size: spec.Size}, nil
	case ShapeVariadic:
		if !last {
			return nil, fmt.Errorf("%w %q: variadic parameter must be last", ErrInvalidSpec, spec.Name)
		}
		base.hint = hint + "..."
		return &variadic{base}, nil
	case ShapeRaw:
		if !last {
			return nil, fmt.Errorf("%w %q: raw parameter must be last", ErrInvalidSpec, spec.Name)
		}
		if spec.Type != interpret.Text {
			return nil, fmt.Errorf("%w %q: raw parameter must be text, not %s", ErrInvalidSpec, spec.Name, spec.Type)
		}
		base.hint = "raw text"
		return &raw{base}, nil
	default:
		return nil, fmt.Errorf("%w %q: unknown shape %s", ErrInvalidSpec, spec.Name, spec.Shape)
	}
}

type param struct {
	name string
	hint string
	elem interpret.Type
	reg  *interpret.Registry
}

func (p param) Name() string     { return p.name }
func (p param) TypeHint() string { return p.hint }

type simple struct{ param }

func (p *simple) Bind(ctx interpret.Context, tz *tokenize.Tokenizer) (any, error) {
	tok, err := next(tz)
	if err != nil {
		return nil, err
	}
	return p.reg.Interpret(ctx, p.elem, []tokenize.Token{tok})
}

type fixed struct {
	param
	size int
}

func (p *fixed) Bind(ctx interpret.Context, tz *tokenize.Tokenizer) (any, error) {
	toks := make([]tokenize.Token, 0, p.size)
	for len(toks) < p.size {
		tok, err := next(tz)
		if err != nil {
			return nil, fmt.Errorf("%s: %d of %d elements: %w", p.name, len(toks), p.size, err)
		}
		toks = append(toks, tok)
	}
	return p.reg.Interpret(ctx, interpret.ArrayOf(p.elem), toks)
}

type variadic struct{ param }

func (p *variadic) Bind(ctx interpret.Context, tz *tokenize.Tokenizer) (any, error) {
	var toks []tokenize.Token
	for {
		tok, err := Next(tz)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return p.reg.Interpret(ctx, interpret.ArrayOf(p.elem), toks)
}

type raw struct{ param }

func (p *raw) Bind(_ interpret.Context, tz *tokenize.Tokenizer) (any, error) {
	tok, ok := tz.Remaining()
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(tok.Raw()), nil
}

// Next returns the next non-blank token of tz, or io.EOF.
func Next(tz *tokenize.Tokenizer) (tokenize.Token, error) {
	for {
		tok, err := tz.Next()
		if err != nil {
			return tokenize.Token{}, err
		}
		if !tok.IsBlank() {
			return tok, nil
		}
	}
}

// next is Next with running out of input reported as ErrArgumentCount.
func next(tz *tokenize.Tokenizer) (tokenize.Token, error) {
	tok, err := Next(tz)
	if errors.Is(err, io.EOF) {
		return tokenize.Token{}, fmt.Errorf("%w: input exhausted", interpret.ErrArgumentCount)
	}
	return tok, err
}
