package model

import (
	"fmt"

	"github.com/samber/lo"
)

// ObjectiveEvaluator computes the makespan objective. It is defined for
// infeasible candidates too: search procedures combine it with the violation
// total as a penalty, so a missing objective would stall them.
type ObjectiveEvaluator interface {
	// Makespan returns the latest end time across all surgeries
	Makespan(solution Solution) (int, error)
}

func NewObjectiveEvaluator(instance Instance) ObjectiveEvaluator {
	return makespanEvaluator{instance: instance}
}

type makespanEvaluator struct {
	instance Instance
}

func (evaluator makespanEvaluator) Makespan(solution Solution) (int, error) {
	if len(solution.SurgeryEnd) != evaluator.instance.Surgeries {
		return 0, DomainError{Reason: fmt.Sprintf("surgery_end must hold %d entries (got %d)", evaluator.instance.Surgeries, len(solution.SurgeryEnd))}
	}
	return lo.Max(solution.SurgeryEnd), nil
}
