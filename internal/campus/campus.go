// Package campus serves the fixed dashboard, student and course data shown on the dashboard.
package campus

// DashboardStats holds the headline numbers for the dashboard cards.
type DashboardStats struct {
	TotalStudents     int     `json:"totalStudents"`
	TotalCourses      int     `json:"totalCourses"`
	TodayClasses      int     `json:"todayClasses"`
	OverallAttendance float64 `json:"overallAttendance"`
	ActiveStudents    int     `json:"activeStudents"`
	TotalFaculty      int     `json:"totalFaculty"`
}

// Student is a student row with their attendance percentage.
type Student struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Program    string  `json:"program"`
	Year       string  `json:"year"`
	Attendance float64 `json:"attendance"`
}

// Course is a scheduled course with its enrolment count.
type Course struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Faculty    string `json:"faculty"`
	Schedule   string `json:"schedule"`
	Room       string `json:"room"`
	Enrolled   int    `json:"enrolled"`
}

// Stats returns the dashboard numbers.
func Stats() DashboardStats {
	return DashboardStats{
		TotalStudents:     1250,
		TotalCourses:      156,
		TodayClasses:      23,
		OverallAttendance: 94.2,
		ActiveStudents:    1180,
		TotalFaculty:      85,
	}
}

// Students returns a fresh copy of the student list on every call.
func Students() []Student {
	return []Student{
		{ID: "ST001", Name: "Alice Johnson", Email: "alice@college.edu", Program: "Computer Science", Year: "2nd Year", Attendance: 95.5},
		{ID: "ST002", Name: "Bob Smith", Email: "bob@college.edu", Program: "Engineering", Year: "3rd Year", Attendance: 88.2},
		{ID: "ST003", Name: "Carol Davis", Email: "carol@college.edu", Program: "Business", Year: "1st Year", Attendance: 92.1},
	}
}

// Courses returns a fresh copy of the course list on every call.
func Courses() []Course {
	return []Course{
		{
			ID:         "CS101",
			Name:       "Introduction to Programming",
			Department: "Computer Science",
			Faculty:    "Dr. Michael Chen",
			Schedule:   "Mon-Wed-Fri 9:00 AM",
			Room:       "Lab A1",
			Enrolled:   45,
		},
		{
			ID:         "ENG101",
			Name:       "Engineering Mathematics",
			Department: "Engineering",
			Faculty:    "Prof. Sarah Williams",
			Schedule:   "Tue-Thu 11:00 AM",
			Room:       "Room 301",
			Enrolled:   52,
		},
	}
}
