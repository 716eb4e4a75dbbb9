package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wardInstance is a hand-built two-room instance used across evaluator tests.
// All fields are minutes, as if already parsed.
func wardInstance() Instance {
	return Instance{
		Rooms:            2,
		Nurses:           2,
		Surgeries:        3,
		MinStart:         []int{0, 0, 480},
		MaxEnd:           []int{600, 600, 600},
		Duration:         []int{60, 60, 30},
		NursesRequired:   []int{1, 1, 1},
		ShiftStart:       []int{0, 0},
		ShiftEnd:         []int{600, 600},
		MaxShiftDuration: []int{600, 600},
		Incompatible: [][]bool{
			{false, false},
			{false, true},
			{false, false},
		},
	}
}

// wardSolution is a feasible baseline against wardInstance: back-to-back in
// room 0, surgery 2 alone in room 1, one nurse each.
func wardSolution() Solution {
	return Solution{
		SurgeryRoom:     []int{0, 0, 1},
		SurgeryStart:    []int{0, 60, 480},
		SurgeryEnd:      []int{60, 120, 510},
		NurseAssignment: [][]int{{0, 1}, {2}},
	}
}

func TestRoomCompatibility(t *testing.T) {
	evaluator := NewConstraintEvaluator(wardInstance())

	t.Run("Compatible rooms", func(t *testing.T) {
		assert.Zero(t, evaluator.RoomCompatibility(wardSolution()).Amount)
	})

	t.Run("Forbidden room counts one unit", func(t *testing.T) {
		// Arrange: surgery 1 forbids room 1
		solution := wardSolution()
		solution.SurgeryRoom = []int{0, 1, 1}

		// Act
		violation := evaluator.RoomCompatibility(solution)

		// Assert
		assert.Equal(t, 1, violation.Amount)
		assert.Contains(t, violation.Offender, "surgery 1")
	})
}

func TestTimeWindow(t *testing.T) {
	evaluator := NewConstraintEvaluator(wardInstance())

	t.Run("Inside the window", func(t *testing.T) {
		assert.Zero(t, evaluator.TimeWindow(wardSolution()).Amount)
	})

	t.Run("Late finish measured in minutes over", func(t *testing.T) {
		// Arrange: surgery 2 window is [480, 600], duration 30; starting at
		// 595 ends at 625, 25 minutes past the window
		solution := wardSolution()
		solution.SurgeryStart[2] = 595
		solution.SurgeryEnd[2] = 625

		// Act
		violation := evaluator.TimeWindow(solution)

		// Assert
		assert.Equal(t, 25, violation.Amount)
		assert.Contains(t, violation.Offender, "surgery 2")
	})

	t.Run("Early start measured in minutes under", func(t *testing.T) {
		// Arrange
		solution := wardSolution()
		solution.SurgeryStart[2] = 470
		solution.SurgeryEnd[2] = 500

		// Act + Assert
		assert.Equal(t, 10, evaluator.TimeWindow(solution).Amount)
	})
}

func TestDurationConsistency(t *testing.T) {
	evaluator := NewConstraintEvaluator(wardInstance())

	t.Run("Ends match starts plus duration", func(t *testing.T) {
		assert.Zero(t, evaluator.DurationConsistency(wardSolution()).Amount)
	})

	t.Run("Drift measured as absolute minutes", func(t *testing.T) {
		// Arrange: surgery 0 claims 45 minutes instead of 60
		solution := wardSolution()
		solution.SurgeryEnd[0] = 45

		// Act + Assert
		assert.Equal(t, 15, evaluator.DurationConsistency(solution).Amount)
	})
}

func TestRoomOverlap(t *testing.T) {
	evaluator := NewConstraintEvaluator(wardInstance())

	t.Run("Touching intervals do not overlap", func(t *testing.T) {
		// wardSolution has surgery 1 start exactly at surgery 0's end
		assert.Zero(t, evaluator.RoomOverlap(wardSolution()).Amount)
	})

	t.Run("One shared minute counts one", func(t *testing.T) {
		// Arrange
		solution := wardSolution()
		solution.SurgeryStart[1] = 59
		solution.SurgeryEnd[1] = 119

		// Act
		violation := evaluator.RoomOverlap(solution)

		// Assert
		assert.Equal(t, 1, violation.Amount)
	})

	t.Run("Different rooms never conflict", func(t *testing.T) {
		// Arrange: surgeries 0 and 2 fully concurrent but in separate rooms
		solution := wardSolution()
		solution.SurgeryStart[2] = 0
		solution.SurgeryEnd[2] = 30

		// Act + Assert
		assert.Zero(t, evaluator.RoomOverlap(solution).Amount)
	})

	t.Run("Overlap sums over all conflicting pairs", func(t *testing.T) {
		// Arrange: all three surgeries at once in room 0; pairwise overlaps
		// are 60 (0-1), 30 (0-2) and 30 (1-2)
		solution := Solution{
			SurgeryRoom:     []int{0, 0, 0},
			SurgeryStart:    []int{0, 0, 0},
			SurgeryEnd:      []int{60, 60, 30},
			NurseAssignment: [][]int{{0, 1}, {2}},
		}

		// Act + Assert
		assert.Equal(t, 120, evaluator.RoomOverlap(solution).Amount)
	})
}

func TestNurseCoverageAndShift(t *testing.T) {
	evaluator := NewConstraintEvaluator(wardInstance())

	t.Run("Covered and inside shifts", func(t *testing.T) {
		assert.Zero(t, evaluator.NurseCoverageAndShift(wardSolution()).Amount)
	})

	t.Run("Missing headcount", func(t *testing.T) {
		// Arrange: nobody covers surgery 2
		solution := wardSolution()
		solution.NurseAssignment = [][]int{{0, 1}, {}}

		// Act
		violation := evaluator.NurseCoverageAndShift(solution)

		// Assert
		assert.Equal(t, 1, violation.Amount)
		assert.Contains(t, violation.Offender, "surgery 2")
	})

	t.Run("Surgery outside the nurse shift", func(t *testing.T) {
		// Arrange: nurse 1's shift closes at 540
		instance := wardInstance()
		instance.ShiftEnd[1] = 540
		solution := wardSolution()
		solution.SurgeryStart[2] = 520
		solution.SurgeryEnd[2] = 550

		// Act + Assert: 10 minutes past the shift end
		assert.Equal(t, 10, NewConstraintEvaluator(instance).NurseCoverageAndShift(solution).Amount)
	})

	t.Run("Nurse double-booked", func(t *testing.T) {
		// Arrange: one nurse on two fully concurrent surgeries in distinct rooms
		solution := Solution{
			SurgeryRoom:     []int{0, 1, 1},
			SurgeryStart:    []int{0, 0, 480},
			SurgeryEnd:      []int{60, 60, 510},
			NurseAssignment: [][]int{{0, 1}, {2}},
		}

		// Act
		violation := evaluator.NurseCoverageAndShift(solution)

		// Assert
		assert.Equal(t, 60, violation.Amount)
		assert.Contains(t, violation.Offender, "nurse 0")
	})

	t.Run("Back-to-back surgeries are fine for one nurse", func(t *testing.T) {
		assert.Zero(t, evaluator.NurseCoverageAndShift(wardSolution()).Amount)
	})

	t.Run("Cumulative workload over the bound", func(t *testing.T) {
		// Arrange: nurse 0 may work at most 90 minutes in total
		instance := wardInstance()
		instance.MaxShiftDuration[0] = 90

		// Act + Assert: nurse 0 works 120 minutes, 30 over
		assert.Equal(t, 30, NewConstraintEvaluator(instance).NurseCoverageAndShift(wardSolution()).Amount)
	})
}

func TestReportHasNoEarlyExit(t *testing.T) {
	// Arrange: one candidate violating every family at once
	evaluator := NewConstraintEvaluator(wardInstance())
	solution := Solution{
		SurgeryRoom:     []int{0, 1, 0},      // surgery 1 in forbidden room 1
		SurgeryStart:    []int{0, 0, 400},    // surgery 2 before its window
		SurgeryEnd:      []int{60, 50, 430},  // surgery 1 shorter than its duration
		NurseAssignment: [][]int{{0, 1}, {}}, // surgery 2 uncovered, nurse 0 double-booked
	}

	// Act
	report := evaluator.Report(solution)

	// Assert
	assert.Positive(t, report.RoomCompatibility.Amount)
	assert.Positive(t, report.TimeWindow.Amount)
	assert.Positive(t, report.DurationConsistency.Amount)
	assert.Positive(t, report.NurseCoverageAndShift.Amount)
	assert.Equal(t,
		report.RoomCompatibility.Amount+
			report.TimeWindow.Amount+
			report.DurationConsistency.Amount+
			report.RoomOverlap.Amount+
			report.NurseCoverageAndShift.Amount,
		report.GrandTotal())
}

func TestShrinkingDurationNeverAddsOverlap(t *testing.T) {
	// Arrange: a congested candidate with room and nurse conflicts
	evaluator := NewConstraintEvaluator(wardInstance())
	congested := Solution{
		SurgeryRoom:     []int{0, 0, 0},
		SurgeryStart:    []int{0, 30, 480},
		SurgeryEnd:      []int{60, 90, 510},
		NurseAssignment: [][]int{{0, 1}, {2}},
	}
	before := evaluator.Report(congested)

	for s := range 3 {
		// Act: shrink surgery s to a zero-length interval at its start
		shrunk := Solution{
			SurgeryRoom:     congested.SurgeryRoom,
			SurgeryStart:    congested.SurgeryStart,
			SurgeryEnd:      append([]int{}, congested.SurgeryEnd...),
			NurseAssignment: congested.NurseAssignment,
		}
		shrunk.SurgeryEnd[s] = shrunk.SurgeryStart[s]
		after := evaluator.Report(shrunk)

		// Assert: interval-based magnitudes can only go down
		assert.LessOrEqual(t, after.RoomOverlap.Amount, before.RoomOverlap.Amount)
		assert.LessOrEqual(t, after.NurseCoverageAndShift.Amount, before.NurseCoverageAndShift.Amount)
	}
}
