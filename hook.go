package mandel

import (
	"context"
	"time"
)

// Strategy fills a len(imagAxis) × len(realAxis) grid. Every implementation
// must return the same grid as the sequential one for the same input.
type Strategy interface {
	Compute(ctx context.Context, realAxis, imagAxis []float64, p Params) (*Grid, error)
}

// Hook is invoked around strategy execution.
type Hook interface {
	StrategyStarted(name string, rows, cols int)
	StrategyFinished(name string, elapsed time.Duration, err error)
}

// NopHook is the default Hook.
type NopHook struct{}

func (NopHook) StrategyStarted(string, int, int)              {}
func (NopHook) StrategyFinished(string, time.Duration, error) {}

var _ Hook = NopHook{}

// ValidateInput runs the checks shared by every strategy.
func ValidateInput(realAxis, imagAxis []float64, p Params) error {
	if err := ValidateAxis("realAxis", realAxis); err != nil {
		return err
	}
	if err := ValidateAxis("imagAxis", imagAxis); err != nil {
		return err
	}
	return p.Validate()
}
