// Package invoke selects and runs one of a command's signatures for a line of
// argument text.
//
// Signatures are tried in ascending priority order, each against a fresh
// tokenizer. The first one whose parameters all bind runs. When none does, the
// failing signature that got furthest is kept for diagnostics.
package invoke

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/tokenize"
	"github.com/keshon/smartcmd/pkg/cmd"
	"github.com/rs/zerolog"
)

// Handler runs a signature with its bound arguments.
type Handler func(ctx context.Context, ictx interpret.Context, args Args) error

// Overload declares one signature of a command.
type Overload struct {
	Doc string
	// Priority orders signatures, lowest first. Equal priorities keep declaration order.
	Priority int
	// Flags configure the tokenizer. Zero means tokenize.RecommendedFlags.
	Flags   tokenize.Flags
	Params  []binding.Spec
	Handler Handler
}

// Definition declares a command and its signatures.
type Definition struct {
	Name      string
	Aliases   []string
	Doc       string
	Overloads []Overload
}

// Diagnoser is called when no signature matched. best is nil when every
// signature failed to tokenize.
type Diagnoser func(ctx context.Context, ictx interpret.Context, c *Command, best *Failure)

// Option configures a Command.
type Option func(*Command)

// WithDiagnoser installs d as the no-match hook.
func WithDiagnoser(d Diagnoser) Option {
	return func(c *Command) { c.diagnose = d }
}

// Signature is a validated overload.
type Signature struct {
	command  string
	doc      string
	priority int
	flags    tokenize.Flags
	params   []binding.Param
	handler  Handler
}

func (s *Signature) Doc() string { return s.doc }

func (s *Signature) Priority() int { return s.priority }

func (s *Signature) Params() []binding.Param { return s.params }

// Usage renders the signature as "name <param: hint> ...".
func (s *Signature) Usage() string {
	var b strings.Builder
	b.WriteString(s.command)
	for _, p := range s.params {
		fmt.Fprintf(&b, " <%s: %s>", p.Name(), p.TypeHint())
	}
	return b.String()
}

// Command is a named set of signatures. It implements cmd.Command with the
// invocation's Data holding the interpret.Context.
type Command struct {
	name       string
	aliases    []string
	doc        string
	signatures []*Signature
	diagnose   Diagnoser
}

// NewCommand validates def against reg.
func NewCommand(reg *interpret.Registry, def Definition, opts ...Option) (*Command, error) {
	if def.Name == "" {
		return nil, errors.New("command without a name")
	}
	if len(def.Overloads) == 0 {
		return nil, fmt.Errorf("%s: %w", def.Name, ErrNoOverloads)
	}
	c := &Command{
		name:    def.Name,
		aliases: slices.Clone(def.Aliases),
		doc:     def.Doc,
	}
	for i, o := range def.Overloads {
		sig, err := newSignature(reg, def.Name, o)
		if err != nil {
			return nil, fmt.Errorf("%s: signature %d: %w", def.Name, i, err)
		}
		c.signatures = append(c.signatures, sig)
	}
	slices.SortStableFunc(c.signatures, func(a, b *Signature) int {
		return cmp.Compare(a.priority, b.priority)
	})
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newSignature(reg *interpret.Registry, name string, o Overload) (*Signature, error) {
	if o.Handler == nil {
		return nil, errors.New("nil handler")
	}
	flags := o.Flags
	if flags == 0 {
		flags = tokenize.RecommendedFlags
	}
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	sig := &Signature{
		command:  name,
		doc:      o.Doc,
		priority: o.Priority,
		flags:    flags,
		handler:  o.Handler,
	}
	for i, spec := range o.Params {
		p, err := binding.Build(reg, spec, i == len(o.Params)-1)
		if err != nil {
			return nil, err
		}
		sig.params = append(sig.params, p)
	}
	return sig, nil
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.doc }
func (c *Command) Aliases() []string   { return c.aliases }

// Signatures returns the signatures in the order they are tried.
func (c *Command) Signatures() []*Signature { return c.signatures }

// Run invokes the command with inv.Args. inv.Data must be an interpret.Context.
func (c *Command) Run(ctx context.Context, inv *cmd.Invocation) error {
	ictx, ok := inv.Data.(interpret.Context)
	if !ok {
		return fmt.Errorf("%s: invocation data %T is not an interpret.Context", c.name, inv.Data)
	}
	out, err := c.Invoke(ctx, ictx, inv.Args)
	record(ctx, out)
	return err
}

// Invoke binds raw against each signature in turn and runs the first that
// binds completely. Input left after the last parameter is ignored. Every
// signature failing to tokenize sends its own reply. The error is the
// handler's error, or a *NoMatchError.
func (c *Command) Invoke(ctx context.Context, ictx interpret.Context, raw string) (Outcome, error) {
	log := zerolog.Ctx(ctx)
	out := Outcome{Command: c}

	for _, sig := range c.signatures {
		out.Tried++
		args, fail, err := sig.bind(ictx, raw)

		var tokErr *tokenize.Error
		if errors.As(err, &tokErr) {
			log.Debug().Str("command", c.name).Str("signature", sig.Usage()).Err(err).Msg("Tokenizer failure")
			if rerr := ictx.Reply(FormatTokenizeError(tokErr)); rerr != nil {
				log.Warn().Err(rerr).Str("command", c.name).Msg("Failed to report tokenizer failure")
			}
			continue
		}
		if err != nil {
			return out, err
		}

		if fail != nil {
			log.Debug().Str("command", c.name).Str("signature", sig.Usage()).
				Int("index", fail.Index).Float64("confidence", fail.Confidence).Err(fail.Err).Msg("Signature did not bind")
			if out.Best == nil || fail.Confidence > out.Best.Confidence {
				out.Best = fail
			}
			continue
		}

		out.Matched = sig
		if err := sig.handler(ctx, ictx, args); err != nil {
			return out, fmt.Errorf("%s: %w", c.name, err)
		}
		return out, nil
	}

	if c.diagnose != nil {
		c.diagnose(ctx, ictx, c, out.Best)
	}
	return out, &NoMatchError{Command: c.name, Best: out.Best}
}

// bind binds every parameter of s over raw. A binding failure is returned as
// a *Failure. Tokenizer failures and construction errors come back as err.
func (s *Signature) bind(ictx interpret.Context, raw string) (Args, *Failure, error) {
	tz, err := tokenize.New(raw, s.flags)
	if err != nil {
		return Args{}, nil, err
	}
	k := len(s.params)
	names := make([]string, k)
	values := make([]any, k)
	for i, p := range s.params {
		v, err := p.Bind(ictx, tz)
		var tokErr *tokenize.Error
		if errors.As(err, &tokErr) {
			return Args{}, nil, err
		}
		if err != nil {
			return Args{}, &Failure{Signature: s, Index: i, Confidence: float64(i) / float64(k), Err: err}, nil
		}
		names[i] = p.Name()
		values[i] = v
	}
	return NewArgs(names, values), nil, nil
}

// FormatTokenizeError is the text sent to the invoker for a tokenizer failure.
func FormatTokenizeError(err *tokenize.Error) string {
	return "Your message is not formatted correctly. the issue seems to be: " + err.Error()
}
