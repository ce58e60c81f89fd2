package commands

import (
	"context"
	"strconv"

	"plotnav/internal/application"
	"plotnav/internal/application/navigation"
	"plotnav/internal/domain"
)

// NavigationStep is the outcome of one replayed input
type NavigationStep struct {
	Input  string
	Result domain.Result
	Err    error // OutOfRange or display failure; the replay continues
}

// NavigateCommand replays a key script against a started controller.
// A numeric token is a jump to that plot; any other token is a sequence of
// single-character key presses ("jjk" is three presses).
type NavigateCommand struct {
	controller *navigation.Controller
	Tokens     []string
}

// NewNavigateCommand creates a new NavigateCommand
func NewNavigateCommand(controller *navigation.Controller, tokens []string) *NavigateCommand {
	return &NavigateCommand{
		controller: controller,
		Tokens:     tokens,
	}
}

// Validate checks the command arguments
func (c *NavigateCommand) Validate() error {
	if len(c.Tokens) == 0 {
		return &application.ValidationError{Field: "keys", Message: "key script is required"}
	}
	return nil
}

// Execute replays every input in order
func (c *NavigateCommand) Execute(ctx context.Context) ([]NavigationStep, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var steps []NavigationStep
	for _, tok := range c.Tokens {
		if n, err := strconv.Atoi(tok); err == nil {
			res, err := c.controller.HandleEvent(ctx, domain.JumpTo(n))
			steps = append(steps, NavigationStep{Input: tok, Result: res, Err: err})
			continue
		}
		for _, r := range tok {
			code := string(r)
			res, err := c.controller.HandleKey(ctx, code)
			steps = append(steps, NavigationStep{Input: code, Result: res, Err: err})
		}
	}
	return steps, nil
}
