// Package academic derives a student's position in their program from the
// admission year and the program length. Nothing here is persisted: the
// standing is recomputed on every read so it can never drift from the calendar.
package academic

import "time"

// Standing is the year and semester a student is currently in.
type Standing struct {
	CurrentYear int `json:"currentYear"`
	Semester    int `json:"semester"`
}

// DeriveStanding clamps the number of calendar years since admission into
// [1, duration] and reports the first semester of that year. A future
// admission year lands in year 1; a student past the final year stays there.
func DeriveStanding(admissionYear, duration int, now time.Time) Standing {
	if duration < 1 {
		duration = 1
	}

	year := now.Year() - admissionYear
	if year < 1 {
		year = 1
	}
	if year > duration {
		year = duration
	}

	return Standing{
		CurrentYear: year,
		Semester:    year*2 - 1,
	}
}

// ActiveSemesters returns both semesters of the current year.
func (s Standing) ActiveSemesters() []int {
	return []int{s.CurrentYear*2 - 1, s.CurrentYear * 2}
}

// CompletedSemesters lists every semester before the current year.
func (s Standing) CompletedSemesters() []int {
	completed := make([]int, 0, (s.CurrentYear-1)*2)
	for sem := 1; sem < s.CurrentYear*2-1; sem++ {
		completed = append(completed, sem)
	}
	return completed
}

// YearOfSemester maps a semester number onto its academic year.
func YearOfSemester(semester int) int {
	if semester < 1 {
		return 0
	}
	return (semester + 1) / 2
}
