package model

import "math/rand"

// Evaluation is the verdict returned for one candidate solution.
type Evaluation struct {
	Feasible       bool
	Violations     ViolationReport
	GrandViolation int
	Makespan       int
}

// Problem is the single entry point an external optimizer drives. Evaluate is
// a pure function of (instance, solution): it reads the immutable instance
// and the caller-supplied candidate, mutates nothing and keeps no history, so
// any number of workers may score candidates concurrently on one Problem.
type Problem interface {
	// Evaluate scores one candidate; a DomainError means the candidate could not be scored at all
	Evaluate(solution Solution) (Evaluation, error)

	// RandomSolution builds a structurally valid candidate for seeding a search
	RandomSolution(rng *rand.Rand) Solution

	// Instance exposes the immutable model the problem was built over
	Instance() Instance
}

func NewProblem(instance Instance) Problem {
	return surgeryProblem{
		instance:    instance,
		constraints: NewConstraintEvaluator(instance),
		objective:   NewObjectiveEvaluator(instance),
	}
}

// ProblemFromFile parses the instance text at file and wraps it in a Problem.
func ProblemFromFile(file string) (Problem, error) {
	instance, err := InstanceFromFile(file)
	if err != nil {
		return nil, err
	}
	return NewProblem(instance), nil
}

type surgeryProblem struct {
	instance    Instance
	constraints ConstraintEvaluator
	objective   ObjectiveEvaluator
}

func (problem surgeryProblem) Evaluate(solution Solution) (Evaluation, error) {
	if err := solution.Validate(problem.instance); err != nil {
		return Evaluation{}, err
	}

	makespan, err := problem.objective.Makespan(solution)
	if err != nil {
		return Evaluation{}, err
	}

	report := problem.constraints.Report(solution)
	return Evaluation{
		Feasible:       report.GrandTotal() == 0,
		Violations:     report,
		GrandViolation: report.GrandTotal(),
		Makespan:       makespan,
	}, nil
}

func (problem surgeryProblem) RandomSolution(rng *rand.Rand) Solution {
	return RandomSolution(problem.instance, rng)
}

func (problem surgeryProblem) Instance() Instance {
	return problem.instance
}
