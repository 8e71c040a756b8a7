// Package interpret turns tokens into typed values.
//
// A Registry maps scalar target types to an interpreter and a human readable
// type hint. Arrays of any registered type are handled by the registry itself.
// A Registry is immutable once built and safe for concurrent use.
package interpret

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/keshon/smartcmd/internal/tokenize"
)

var (
	// ErrArgumentCount is returned when the number of tokens does not fit the target type.
	ErrArgumentCount = errors.New("wrong number of arguments")
	// ErrMismatch is returned when a token cannot be read as the target type.
	ErrMismatch = errors.New("argument does not match type")
	// ErrUnsupportedType is returned for types without a registered interpreter.
	ErrUnsupportedType = errors.New("unsupported argument type")
)

// Interpreter reads one token as a value. A nil value with a nil error is a valid result.
type Interpreter func(ctx Context, tok tokenize.Token) (any, error)

// Bundle pairs an interpreter with the type hint shown to users.
type Bundle struct {
	TypeHint    string
	Interpreter Interpreter
}

// Registry is a read-only set of bundles.
type Registry struct {
	bundles map[Type]Bundle
}

// Builder collects bundles for a Registry.
type Builder struct {
	bundles map[Type]Bundle
	err     error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{bundles: make(map[Type]Bundle)}
}

// Register adds the bundle for t. Interpreters of the built-in kinds must
// return the built-in value types (int, *big.Int, float64, string, Entity).
// The first error is kept and returned by Build.
func (b *Builder) Register(t Type, typeHint string, fn Interpreter) *Builder {
	if b.err != nil {
		return b
	}
	switch {
	case t.IsArray():
		b.err = fmt.Errorf("register %s: array types are derived from their element type", t)
	case t.Kind() == KindInvalid:
		b.err = fmt.Errorf("register %s: invalid type", t)
	case fn == nil:
		b.err = fmt.Errorf("register %s: nil interpreter", t)
	default:
		if _, ok := b.bundles[t]; ok {
			b.err = fmt.Errorf("register %s: already registered", t)
			return b
		}
		b.bundles[t] = Bundle{TypeHint: typeHint, Interpreter: fn}
	}
	return b
}

// Build returns the registry. The builder must not be used afterwards.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	bundles := make(map[Type]Bundle, len(b.bundles))
	for t, bundle := range b.bundles {
		bundles[t] = bundle
	}
	return &Registry{bundles: bundles}, nil
}

// Default returns a registry with the built-in interpreters only.
func Default() *Registry {
	r, err := Builtins().Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Supports reports whether t, or the element type of t, has a bundle.
func (r *Registry) Supports(t Type) bool {
	_, ok := r.bundles[t.Elem()]
	return ok
}

// Bundle returns the bundle of a scalar type.
func (r *Registry) Bundle(t Type) (Bundle, error) {
	if t.IsArray() {
		return Bundle{}, fmt.Errorf("%w: %s has no bundle of its own", ErrUnsupportedType, t)
	}
	bundle, ok := r.bundles[t]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return bundle, nil
}

// TypeHint returns the hint of t's element type.
func (r *Registry) TypeHint(t Type) (string, error) {
	bundle, err := r.Bundle(t.Elem())
	if err != nil {
		return "", err
	}
	return bundle.TypeHint, nil
}

// Interpret reads toks as a value of type t. Scalar types take exactly one
// token. Array types take any number of tokens and fail as a whole if any
// element fails.
func (r *Registry) Interpret(ctx Context, t Type, toks []tokenize.Token) (any, error) {
	bundle, err := r.Bundle(t.Elem())
	if err != nil {
		return nil, err
	}
	if !t.IsArray() {
		if len(toks) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1 token, got %d", ErrArgumentCount, t, len(toks))
		}
		return bundle.Interpreter(ctx, toks[0])
	}

	values := make([]any, len(toks))
	for i, tok := range toks {
		v, err := bundle.Interpreter(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values[i] = v
	}
	out, err := typedSlice(t.Elem(), values)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func typedSlice(elem Type, values []any) (any, error) {
	switch elem.Kind() {
	case KindInteger:
		return collect[int](elem, values)
	case KindBigInteger:
		return collect[*big.Int](elem, values)
	case KindFloat:
		return collect[float64](elem, values)
	case KindText:
		return collect[string](elem, values)
	case KindMention:
		return collect[Entity](elem, values)
	default:
		return values, nil
	}
}

// collect fails when an interpreter registered for a built-in kind returned
// a value of another type.
func collect[T any](elem Type, values []any) ([]T, error) {
	out := make([]T, len(values))
	for i, v := range values {
		tv, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("%w: element %d: %s interpreter returned %T", ErrMismatch, i, elem, v)
		}
		out[i] = tv
	}
	return out, nil
}
