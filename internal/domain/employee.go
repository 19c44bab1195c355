package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ShiftSlot задаёт половину рабочего дня: 0 утро, 1 вечер.
type ShiftSlot int

const (
	ShiftMorning ShiftSlot = 0
	ShiftEvening ShiftSlot = 1
)

// Shift — смена сотрудника в конкретный день недели.
type Shift struct {
	Day  time.Weekday
	Slot ShiftSlot
}

// String возвращает смену в виде "Monday-0".
func (s Shift) String() string {
	return fmt.Sprintf("%s-%d", s.Day, s.Slot)
}

// ParseShift разбирает строку, полученную из Shift.String.
func ParseShift(raw string) (Shift, error) {
	dayPart, slotPart, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return Shift{}, fmt.Errorf("%w: %q", ErrShiftInvalid, raw)
	}
	slot, err := strconv.Atoi(slotPart)
	if err != nil || (ShiftSlot(slot) != ShiftMorning && ShiftSlot(slot) != ShiftEvening) {
		return Shift{}, fmt.Errorf("%w: %q", ErrShiftInvalid, raw)
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), dayPart) {
			return Shift{Day: d, Slot: ShiftSlot(slot)}, nil
		}
	}
	return Shift{}, fmt.Errorf("%w: %q", ErrShiftInvalid, raw)
}

// Employee — сотрудник ресторана.
type Employee struct {
	Person
	JobTitle string
	// Оклад в минимальных денежных единицах.
	SalaryMinor int64
	Leaves      int
	Shifts      []Shift
}

func (e Employee) SameIdentity(other Employee) bool {
	return e.Person.SameIdentity(other.Person)
}

func (e Employee) Equal(other Employee) bool {
	return e.Person.Equal(other.Person) &&
		e.JobTitle == other.JobTitle &&
		e.SalaryMinor == other.SalaryMinor &&
		e.Leaves == other.Leaves &&
		sameSet(shiftStrings(e.Shifts), shiftStrings(other.Shifts))
}

func (e Employee) Key() string { return e.Name }

func (e Employee) Clone() Employee {
	e.Person = e.Person.Clone()
	e.Shifts = slices.Clone(e.Shifts)
	return e
}

func (e Employee) Fingerprint() uint64 {
	return e.Person.writeTo(newFingerprint(KindEmployee)).
		str(e.JobTitle).
		int(e.SalaryMinor).
		int(int64(e.Leaves)).
		set(shiftStrings(e.Shifts)).
		sum()
}

func (e Employee) Validate() []error {
	errs := e.Person.Validate()
	if strings.TrimSpace(e.JobTitle) == "" {
		errs = append(errs, ErrJobTitleRequired)
	}
	if e.SalaryMinor < 0 {
		errs = append(errs, ErrSalaryNegative)
	}
	if e.Leaves < 0 {
		errs = append(errs, ErrLeavesNegative)
	}
	for _, shift := range e.Shifts {
		if shift.Day < time.Sunday || shift.Day > time.Saturday ||
			(shift.Slot != ShiftMorning && shift.Slot != ShiftEvening) {
			errs = append(errs, ErrShiftInvalid)
			break
		}
	}
	return errs
}

func shiftStrings(shifts []Shift) []string {
	if len(shifts) == 0 {
		return nil
	}
	out := make([]string, len(shifts))
	for i, s := range shifts {
		out[i] = s.String()
	}
	return out
}
