package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// minutesPerHour is the single unit-conversion point: every hour-denominated
// field of the text format (windows, shifts, max shift duration) is scaled by
// it once at parse time, so the whole model works in minutes.
const minutesPerHour = 60

// Instance is the parsed surgery-scheduling instance. All times are minutes.
// An Instance is built once and treated as read-only afterwards: evaluators
// share it across concurrent calls without copying or locking.
type Instance struct {
	Rooms     int
	Nurses    int
	Surgeries int

	MinStart       []int // earliest start per surgery
	MaxEnd         []int // latest end per surgery
	Duration       []int // fixed duration per surgery
	NursesRequired []int // minimum headcount per surgery

	ShiftStart       []int // earliest shift start per nurse
	ShiftEnd         []int // latest shift end per nurse
	MaxShiftDuration []int // cumulative working-time bound per nurse

	Incompatible [][]bool // Incompatible[s][r] = true if and only if surgery s cannot use room r
}

// record is one non-blank line of the instance text together with its
// physical line number, kept for error reporting.
type record struct {
	line   int
	fields []string
}

// ParseInstance reads the documented text layout:
//
//	line 1:                   num_rooms num_nurses num_surgeries
//	line 2:                   min_start per surgery (hours)
//	line 3:                   max_end per surgery (hours)
//	line 4:                   duration per surgery (minutes)
//	line 5:                   nurses required per surgery
//	line 6:                   shift start per nurse (hours)
//	line 7:                   shift end per nurse (hours)
//	line 8:                   max shift duration per nurse (hours)
//	next num_surgeries lines: num_rooms values in {0,1}; 1 = incompatible
//
// Blank lines are ignored. Parsing is purely syntactic: a malformed record
// yields a FormatError naming its line, while semantic defects (a surgery
// with no compatible room, an empty window) load fine and are surfaced by
// StructuralWarnings.
func ParseInstance(reader io.Reader) (Instance, error) {
	records, err := readRecords(reader)
	if err != nil {
		return Instance{}, err
	}
	if len(records) == 0 {
		return Instance{}, FormatError{Line: 1, Reason: "missing header: expected \"num_rooms num_nurses num_surgeries\""}
	}

	header, err := parseRow(records[0], 3, 1)
	if err != nil {
		return Instance{}, err
	}
	rooms, nurses, surgeries := header[0], header[1], header[2]
	if rooms == 0 || nurses == 0 || surgeries == 0 {
		return Instance{}, FormatError{
			Line:   records[0].line,
			Reason: fmt.Sprintf("room, nurse and surgery counts must be positive (got %d %d %d)", rooms, nurses, surgeries),
		}
	}

	if len(records) != 8+surgeries {
		return Instance{}, FormatError{
			Line:   records[len(records)-1].line,
			Reason: fmt.Sprintf("expected %d records for %d surgeries (got %d)", 8+surgeries, surgeries, len(records)),
		}
	}

	instance := Instance{Rooms: rooms, Nurses: nurses, Surgeries: surgeries}

	if instance.MinStart, err = parseRow(records[1], surgeries, minutesPerHour); err != nil {
		return Instance{}, err
	}
	if instance.MaxEnd, err = parseRow(records[2], surgeries, minutesPerHour); err != nil {
		return Instance{}, err
	}
	if instance.Duration, err = parseRow(records[3], surgeries, 1); err != nil {
		return Instance{}, err
	}
	for s, duration := range instance.Duration {
		if duration == 0 {
			return Instance{}, FormatError{
				Line:   records[3].line,
				Reason: fmt.Sprintf("duration of surgery %d must be positive", s),
			}
		}
	}
	if instance.NursesRequired, err = parseRow(records[4], surgeries, 1); err != nil {
		return Instance{}, err
	}
	if instance.ShiftStart, err = parseRow(records[5], nurses, minutesPerHour); err != nil {
		return Instance{}, err
	}
	if instance.ShiftEnd, err = parseRow(records[6], nurses, minutesPerHour); err != nil {
		return Instance{}, err
	}
	if instance.MaxShiftDuration, err = parseRow(records[7], nurses, minutesPerHour); err != nil {
		return Instance{}, err
	}

	instance.Incompatible = make([][]bool, surgeries)
	for s := range surgeries {
		row, err := parseRow(records[8+s], rooms, 1)
		if err != nil {
			return Instance{}, err
		}
		for r, value := range row {
			if value > 1 {
				return Instance{}, FormatError{
					Line:   records[8+s].line,
					Reason: fmt.Sprintf("compatibility value for room %d must be 0 or 1 (got %d)", r, value),
				}
			}
		}
		instance.Incompatible[s] = lo.Map(row, func(value int, _ int) bool {
			return value == 1
		})
	}

	return instance, nil
}

// InstanceFromFile parses the instance text stored at file.
func InstanceFromFile(file string) (Instance, error) {
	f, err := os.Open(file)
	if err != nil {
		return Instance{}, err
	}
	defer f.Close()
	return ParseInstance(f)
}

// StructuralWarnings lists semantic defects that make the instance infeasible
// by construction. The instance still loads and candidates are still scored
// against it: the evaluator, not the parser, decides feasibility.
func (instance Instance) StructuralWarnings() []string {
	warnings := make([]string, 0)

	for s := range instance.Surgeries {
		if !lo.Contains(instance.Incompatible[s], false) {
			warnings = append(warnings, fmt.Sprintf("surgery %d is incompatible with every room", s))
		}
		if instance.NursesRequired[s] < 1 || instance.NursesRequired[s] > instance.Nurses {
			warnings = append(warnings, fmt.Sprintf("surgery %d requires %d nurses but the instance has %d", s, instance.NursesRequired[s], instance.Nurses))
		}
		if instance.MinStart[s]+instance.Duration[s] > instance.MaxEnd[s] {
			warnings = append(warnings, fmt.Sprintf("surgery %d cannot fit its %d minutes inside the window [%d, %d]", s, instance.Duration[s], instance.MinStart[s], instance.MaxEnd[s]))
		}
	}

	for n := range instance.Nurses {
		if instance.ShiftStart[n] >= instance.ShiftEnd[n] {
			warnings = append(warnings, fmt.Sprintf("nurse %d has an empty shift [%d, %d]", n, instance.ShiftStart[n], instance.ShiftEnd[n]))
		}
	}

	return warnings
}

// Format renders the instance back into the documented text layout, scaling
// hour-denominated fields back from minutes. Parsing the result reproduces
// the instance field for field.
func (instance Instance) Format() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d %d %d\n", instance.Rooms, instance.Nurses, instance.Surgeries)
	writeRow(&builder, instance.MinStart, minutesPerHour)
	writeRow(&builder, instance.MaxEnd, minutesPerHour)
	writeRow(&builder, instance.Duration, 1)
	writeRow(&builder, instance.NursesRequired, 1)
	writeRow(&builder, instance.ShiftStart, minutesPerHour)
	writeRow(&builder, instance.ShiftEnd, minutesPerHour)
	writeRow(&builder, instance.MaxShiftDuration, minutesPerHour)
	for s := range instance.Surgeries {
		row := lo.Map(instance.Incompatible[s], func(incompatible bool, _ int) int {
			if incompatible {
				return 1
			}
			return 0
		})
		writeRow(&builder, row, 1)
	}
	return builder.String()
}

func readRecords(reader io.Reader) ([]record, error) {
	scanner := bufio.NewScanner(reader)
	records := make([]record, 0)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		records = append(records, record{line: line, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read instance text: %w", err)
	}
	return records, nil
}

func parseRow(rec record, length, scale int) ([]int, error) {
	if len(rec.fields) != length {
		return nil, FormatError{
			Line:   rec.line,
			Reason: fmt.Sprintf("expected %d integers (got %d)", length, len(rec.fields)),
		}
	}
	values := make([]int, length)
	for i, field := range rec.fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, FormatError{
				Line:   rec.line,
				Reason: fmt.Sprintf("token %q is not an integer", field),
			}
		}
		if value < 0 {
			return nil, FormatError{
				Line:   rec.line,
				Reason: fmt.Sprintf("token %d must be non-negative (got %d)", i+1, value),
			}
		}
		values[i] = value * scale
	}
	return values, nil
}

func writeRow(builder *strings.Builder, values []int, scale int) {
	for i, value := range values {
		if i > 0 {
			builder.WriteByte(' ')
		}
		fmt.Fprintf(builder, "%d", value/scale)
	}
	builder.WriteByte('\n')
}
