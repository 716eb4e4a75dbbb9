package model

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// Solution is one candidate assignment, produced by an external optimizer and
// discarded after evaluation. It carries no instance data: its validity is
// only meaningful against the Instance it is scored with. The nurse→surgery
// direction is the only stored one; the surgery→nurse view is derived on
// demand by CoverageCounts.
type Solution struct {
	SurgeryRoom     []int   `mapstructure:"surgery_room"`
	SurgeryStart    []int   `mapstructure:"surgery_start"`
	SurgeryEnd      []int   `mapstructure:"surgery_end"`
	NurseAssignment [][]int `mapstructure:"nurse_assignment"`
}

// SolutionFromJson decodes the solution interchange record:
//
//	{
//	  "surgery_room":     [r per surgery],
//	  "surgery_start":    [minute per surgery],
//	  "surgery_end":      [minute per surgery],
//	  "nurse_assignment": [[surgery indices] per nurse]
//	}
func SolutionFromJson(file string) (Solution, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Solution{}, err
	}
	var solutionJson map[string]any
	if err := json.Unmarshal(bytes, &solutionJson); err != nil {
		return Solution{}, err
	}

	var solution Solution
	if err := mapstructure.Decode(solutionJson, &solution); err != nil {
		return Solution{}, fmt.Errorf("cannot decode solution record: %w", err)
	}
	return solution, nil
}

// Validate checks the solution's shape against the instance dimensions and
// index ranges. A failure is a DomainError: the candidate cannot be scored at
// all, as opposed to an infeasible candidate, which scores normally.
func (solution Solution) Validate(instance Instance) error {
	if len(solution.SurgeryRoom) != instance.Surgeries {
		return DomainError{Reason: fmt.Sprintf("surgery_room must hold %d entries (got %d)", instance.Surgeries, len(solution.SurgeryRoom))}
	}
	if len(solution.SurgeryStart) != instance.Surgeries {
		return DomainError{Reason: fmt.Sprintf("surgery_start must hold %d entries (got %d)", instance.Surgeries, len(solution.SurgeryStart))}
	}
	if len(solution.SurgeryEnd) != instance.Surgeries {
		return DomainError{Reason: fmt.Sprintf("surgery_end must hold %d entries (got %d)", instance.Surgeries, len(solution.SurgeryEnd))}
	}
	if len(solution.NurseAssignment) != instance.Nurses {
		return DomainError{Reason: fmt.Sprintf("nurse_assignment must hold %d entries (got %d)", instance.Nurses, len(solution.NurseAssignment))}
	}

	for s, room := range solution.SurgeryRoom {
		if room < 0 || room >= instance.Rooms {
			return DomainError{Reason: fmt.Sprintf("surgery %d is assigned room %d, outside [0, %d)", s, room, instance.Rooms)}
		}
	}
	for n, assigned := range solution.NurseAssignment {
		for _, s := range assigned {
			if s < 0 || s >= instance.Surgeries {
				return DomainError{Reason: fmt.Sprintf("nurse %d is assigned surgery %d, outside [0, %d)", n, s, instance.Surgeries)}
			}
		}
	}
	return nil
}

// CoverageCounts derives, per surgery, how many nurses carry it in their
// assignment list.
func (solution Solution) CoverageCounts(instance Instance) []int {
	counts := make([]int, instance.Surgeries)
	for _, assigned := range solution.NurseAssignment {
		for _, s := range assigned {
			counts[s]++
		}
	}
	return counts
}

// RandomSolution builds a structurally valid candidate for seeding a search:
// rooms are drawn uniformly (compatibility is left for the evaluator to
// grade), starts are uniform inside the window clamped to min_start, ends
// follow the fixed durations, and each surgery is pushed onto a random nurse
// subset of the required size. Nurse lists come out sorted by start time.
func RandomSolution(instance Instance, rng *rand.Rand) Solution {
	solution := Solution{
		SurgeryRoom:     make([]int, instance.Surgeries),
		SurgeryStart:    make([]int, instance.Surgeries),
		SurgeryEnd:      make([]int, instance.Surgeries),
		NurseAssignment: make([][]int, instance.Nurses),
	}
	for n := range solution.NurseAssignment {
		solution.NurseAssignment[n] = make([]int, 0)
	}

	for s := range instance.Surgeries {
		solution.SurgeryRoom[s] = rng.Intn(instance.Rooms)

		start := instance.MinStart[s]
		if latestStart := instance.MaxEnd[s] - instance.Duration[s]; latestStart > start {
			start += rng.Intn(latestStart - start + 1)
		}
		solution.SurgeryStart[s] = start
		solution.SurgeryEnd[s] = start + instance.Duration[s]

		required := min(instance.NursesRequired[s], instance.Nurses)
		for _, n := range rng.Perm(instance.Nurses)[:required] {
			solution.NurseAssignment[n] = append(solution.NurseAssignment[n], s)
		}
	}

	for n := range solution.NurseAssignment {
		slices.SortFunc(solution.NurseAssignment[n], func(a, b int) int {
			return solution.SurgeryStart[a] - solution.SurgeryStart[b]
		})
	}
	return solution
}
