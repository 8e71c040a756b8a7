// Package roll is the dice command. It accepts the dice and sides as numbers,
// the number of dice only, dice notation like 2d6, or nothing.
package roll

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
)

const (
	maxDice      = 100
	maxSides     = 1000
	defaultSides = 6
)

var diceRegex = regexp.MustCompile(`(?i)^(\d+)d(\d+)$`)

// Roller returns one die result in [1, sides].
type Roller func(sides int) int

func randomRoll(sides int) int { return rand.IntN(sides) + 1 }

// New builds the roll command. A nil roller rolls at random.
func New(reg *interpret.Registry, roller Roller, opts ...invoke.Option) (*invoke.Command, error) {
	if roller == nil {
		roller = randomRoll
	}
	r := &rollCommand{roll: roller}
	return invoke.NewCommand(reg, invoke.Definition{
		Name: "roll",
		Doc:  "Roll dice like `2 6` or `2d6`",
		Overloads: []invoke.Overload{
			{
				Doc:     "rolls dice with the given number of sides",
				Params:  []binding.Spec{binding.Simple("dice", interpret.Int), binding.Simple("sides", interpret.Int)},
				Handler: r.diceAndSides,
			},
			{
				Doc:     "rolls a number of six sided dice",
				Params:  []binding.Spec{binding.Simple("dice", interpret.Int)},
				Handler: r.dice,
			},
			{
				Doc:     "rolls dice DND style (like 1d20)",
				Params:  []binding.Spec{binding.Simple("roll", interpret.Text)},
				Handler: r.notation,
			},
			{
				Doc:     "rolls one die",
				Handler: r.single,
			},
		},
	}, opts...)
}

type rollCommand struct {
	roll Roller
}

func (r *rollCommand) diceAndSides(_ context.Context, ictx interpret.Context, args invoke.Args) error {
	return ictx.Reply(r.result(args.Int(0), args.Int(1)))
}

func (r *rollCommand) dice(_ context.Context, ictx interpret.Context, args invoke.Args) error {
	return ictx.Reply(r.result(args.Int(0), defaultSides))
}

func (r *rollCommand) notation(_ context.Context, ictx interpret.Context, args invoke.Args) error {
	m := diceRegex.FindStringSubmatch(args.Text(0))
	if m == nil {
		return ictx.Reply("Invalid roll. try something like 2d6 to roll 2 6 sided die")
	}
	return ictx.Reply(r.result(atoiSaturating(m[1]), atoiSaturating(m[2])))
}

func (r *rollCommand) single(_ context.Context, ictx interpret.Context, _ invoke.Args) error {
	return ictx.Reply(r.result(1, defaultSides))
}

func (r *rollCommand) result(dice, sides int) string {
	switch {
	case sides < 0 || dice < 0:
		return "The dice collapse in on themselves\nTotal: ???"
	case sides == 0:
		return "the dice fall through the floor.\nTotal: no"
	case dice > maxDice:
		return "You cannot throw that many dice"
	case sides > maxSides:
		return "The dice have become too round to roll"
	}

	total := 0
	rolls := make([]string, dice)
	for i := range rolls {
		n := r.roll(sides)
		total += n
		rolls[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("rolled: %s\nTotal: %d", strings.Join(rolls, ", "), total)
}

// atoiSaturating parses a digit string, clamping values that overflow.
func atoiSaturating(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}
