package model

import (
	"fmt"

	"github.com/samber/lo"
)

// Violation is the graded outcome of one constraint family. Amount is 0 when
// the family is satisfied; otherwise it is the family's magnitude (minutes of
// overlap or excess, missing headcount, incompatible assignments). Offender
// describes the single worst offender for diagnostics.
type Violation struct {
	Amount   int
	Offender string
}

// ViolationReport holds one Violation per hard-constraint family.
type ViolationReport struct {
	RoomCompatibility     Violation
	TimeWindow            Violation
	DurationConsistency   Violation
	RoomOverlap           Violation
	NurseCoverageAndShift Violation
}

// GrandTotal sums the five family magnitudes; 0 means feasible.
func (report ViolationReport) GrandTotal() int {
	return report.RoomCompatibility.Amount +
		report.TimeWindow.Amount +
		report.DurationConsistency.Amount +
		report.RoomOverlap.Amount +
		report.NurseCoverageAndShift.Amount
}

// ConstraintEvaluator measures the hard-constraint families of the
// surgery-scheduling model against one candidate. Violations are ordinary
// output, never errors: search procedures feed infeasible candidates here
// constantly and want graded magnitudes back. Every method walks its whole
// family with no early exit. Methods expect a solution that already passed
// Solution.Validate.
type ConstraintEvaluator interface {
	// Counts surgeries placed in a room their compatibility row forbids
	RoomCompatibility(solution Solution) Violation

	// Measures minutes by which surgeries start before their window opens or end after it closes
	TimeWindow(solution Solution) Violation

	// Measures minutes by which end-start drifts from the surgery's fixed duration
	DurationConsistency(solution Solution) Violation

	// Measures overlap minutes between surgeries sharing a room; [start, end) intervals that merely touch do not overlap
	RoomOverlap(solution Solution) Violation

	// Measures missing headcount per surgery plus, per nurse, shift-window excess, double-booking overlap and cumulative-duration excess
	NurseCoverageAndShift(solution Solution) Violation

	// Report evaluates all five families
	Report(solution Solution) ViolationReport
}

func NewConstraintEvaluator(instance Instance) ConstraintEvaluator {
	return &intervalEvaluator{instance: instance}
}

type intervalEvaluator struct {
	instance Instance
}

func (evaluator *intervalEvaluator) RoomCompatibility(solution Solution) Violation {
	tracker := offenderTracker{}
	for s, room := range solution.SurgeryRoom {
		if evaluator.instance.Incompatible[s][room] {
			tracker.add(1, fmt.Sprintf("surgery %d is assigned incompatible room %d", s, room))
		}
	}
	return tracker.violation()
}

func (evaluator *intervalEvaluator) TimeWindow(solution Solution) Violation {
	instance := evaluator.instance
	tracker := offenderTracker{}
	for s := range instance.Surgeries {
		if early := instance.MinStart[s] - solution.SurgeryStart[s]; early > 0 {
			tracker.add(early, fmt.Sprintf("surgery %d starts %d minutes before its window opens", s, early))
		}
		if late := solution.SurgeryEnd[s] - instance.MaxEnd[s]; late > 0 {
			tracker.add(late, fmt.Sprintf("surgery %d ends %d minutes after its window closes", s, late))
		}
	}
	return tracker.violation()
}

func (evaluator *intervalEvaluator) DurationConsistency(solution Solution) Violation {
	instance := evaluator.instance
	tracker := offenderTracker{}
	for s := range instance.Surgeries {
		drift := solution.SurgeryEnd[s] - solution.SurgeryStart[s] - instance.Duration[s]
		if drift < 0 {
			drift = -drift
		}
		tracker.add(drift, fmt.Sprintf("surgery %d spans %d minutes instead of %d", s, solution.SurgeryEnd[s]-solution.SurgeryStart[s], instance.Duration[s]))
	}
	return tracker.violation()
}

func (evaluator *intervalEvaluator) RoomOverlap(solution Solution) Violation {
	tracker := offenderTracker{}

	perRoom := make([][]int, evaluator.instance.Rooms)
	for s, room := range solution.SurgeryRoom {
		perRoom[room] = append(perRoom[room], s)
	}

	for room, surgeries := range perRoom {
		for i := 0; i < len(surgeries)-1; i++ {
			for j := i + 1; j < len(surgeries); j++ {
				first, second := surgeries[i], surgeries[j]
				overlap := intervalOverlap(
					solution.SurgeryStart[first], solution.SurgeryEnd[first],
					solution.SurgeryStart[second], solution.SurgeryEnd[second],
				)
				tracker.add(overlap, fmt.Sprintf("surgeries %d and %d overlap for %d minutes in room %d", first, second, overlap, room))
			}
		}
	}
	return tracker.violation()
}

func (evaluator *intervalEvaluator) NurseCoverageAndShift(solution Solution) Violation {
	instance := evaluator.instance
	tracker := offenderTracker{}

	//** Coverage: every surgery needs its required headcount
	for s, count := range solution.CoverageCounts(instance) {
		if missing := instance.NursesRequired[s] - count; missing > 0 {
			tracker.add(missing, fmt.Sprintf("surgery %d is covered by %d of %d required nurses", s, count, instance.NursesRequired[s]))
		}
	}

	//** Shift feasibility per nurse
	for n, assigned := range solution.NurseAssignment {
		// Every assigned surgery must lie inside the nurse's shift window
		for _, s := range assigned {
			if early := instance.ShiftStart[n] - solution.SurgeryStart[s]; early > 0 {
				tracker.add(early, fmt.Sprintf("surgery %d starts %d minutes before the shift of nurse %d", s, early, n))
			}
			if late := solution.SurgeryEnd[s] - instance.ShiftEnd[n]; late > 0 {
				tracker.add(late, fmt.Sprintf("surgery %d ends %d minutes after the shift of nurse %d", s, late, n))
			}
		}

		// A nurse cannot attend two surgeries at once
		for i := 0; i < len(assigned)-1; i++ {
			for j := i + 1; j < len(assigned); j++ {
				first, second := assigned[i], assigned[j]
				overlap := intervalOverlap(
					solution.SurgeryStart[first], solution.SurgeryEnd[first],
					solution.SurgeryStart[second], solution.SurgeryEnd[second],
				)
				tracker.add(overlap, fmt.Sprintf("nurse %d is booked for surgeries %d and %d at once for %d minutes", n, first, second, overlap))
			}
		}

		// Cumulative working time stays under the nurse's bound
		workload := lo.SumBy(assigned, func(s int) int {
			return solution.SurgeryEnd[s] - solution.SurgeryStart[s]
		})
		if excess := workload - instance.MaxShiftDuration[n]; excess > 0 {
			tracker.add(excess, fmt.Sprintf("nurse %d works %d minutes, %d over the shift limit", n, workload, excess))
		}
	}
	return tracker.violation()
}

func (evaluator *intervalEvaluator) Report(solution Solution) ViolationReport {
	return ViolationReport{
		RoomCompatibility:     evaluator.RoomCompatibility(solution),
		TimeWindow:            evaluator.TimeWindow(solution),
		DurationConsistency:   evaluator.DurationConsistency(solution),
		RoomOverlap:           evaluator.RoomOverlap(solution),
		NurseCoverageAndShift: evaluator.NurseCoverageAndShift(solution),
	}
}

// intervalOverlap returns the length of the intersection of two half-open
// intervals; 0 when they are disjoint or merely touching (end_a == start_b).
func intervalOverlap(startA, endA, startB, endB int) int {
	overlap := min(endA, endB) - max(startA, startB)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// offenderTracker accumulates a family's magnitude while remembering the
// single worst offender.
type offenderTracker struct {
	amount   int
	worst    int
	offender string
}

func (tracker *offenderTracker) add(amount int, offender string) {
	if amount <= 0 {
		return
	}
	tracker.amount += amount
	if amount > tracker.worst {
		tracker.worst = amount
		tracker.offender = offender
	}
}

func (tracker offenderTracker) violation() Violation {
	return Violation{Amount: tracker.amount, Offender: tracker.offender}
}
