// SPDX-License-Identifier: Apache-2.0

package execution

// Stage handles the passable and calls next to continue the chain. A stage
// that returns without calling next stops the pipeline.
type Stage[T any] func(passable T, next func(T) T) T

// Pipeline threads one value through an ordered list of stages
type Pipeline[T any] struct {
	passable T
	stages   []Stage[T]
}

// Send starts a pipeline carrying passable
func Send[T any](passable T) *Pipeline[T] {
	return &Pipeline[T]{passable: passable}
}

// Through sets the stages, replacing any set before
func (p *Pipeline[T]) Through(stages ...Stage[T]) *Pipeline[T] {
	p.stages = stages
	return p
}

// Then runs the stages and hands the result to destination. destination is
// only reached if every stage called next.
func (p *Pipeline[T]) Then(destination func(T) T) T {
	next := destination
	for i := len(p.stages) - 1; i >= 0; i-- {
		stage, rest := p.stages[i], next
		next = func(passable T) T {
			return stage(passable, rest)
		}
	}
	return next(p.passable)
}

// Run runs the stages and returns whatever the chain produced
func (p *Pipeline[T]) Run() T {
	return p.Then(func(passable T) T { return passable })
}
