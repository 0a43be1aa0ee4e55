package attendance

import "math"

// Record is a per-class attendance summary for a single day.
type Record struct {
	Date           string  `json:"date"`
	Course         string  `json:"course"`
	TotalStudents  int     `json:"totalStudents"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendanceRate"`
}

func newRecord(date, course string, total, present int) Record {
	return Record{
		Date:           date,
		Course:         course,
		TotalStudents:  total,
		Present:        present,
		Absent:         total - present,
		AttendanceRate: Rate(present, total),
	}
}

// Rate returns present/total as a percentage rounded to one decimal place.
// An empty class has a rate of 0.
func Rate(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)*1000/float64(total)) / 10
}

// Records returns the recent attendance summaries, newest first.
func Records() []Record {
	return []Record{
		newRecord("2024-09-02", "CS101", 45, 43),
		newRecord("2024-09-01", "CS101", 45, 41),
	}
}
