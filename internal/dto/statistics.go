package dto

import "github.com/shopspring/decimal"

// AdminStatisticsResponse is the system-wide overview.
type AdminStatisticsResponse struct {
	TotalInstructors  int64           `json:"total_instructors"`
	ActiveInstructors int64           `json:"active_instructors"`
	TotalStudents     int64           `json:"total_students"`
	ActiveStudents    int64           `json:"active_students"`
	TotalCourses      int64           `json:"total_courses"`
	ActiveCourses     int64           `json:"active_courses"`
	TotalEnrollment   int64           `json:"total_enrollment"`
	TotalCapacity     int64           `json:"total_capacity"`
	UtilizationRate   decimal.Decimal `json:"utilization_rate"` // percent

	CoursesByDepartment []CountResponse `json:"courses_by_department"`
	CoursesBySemester   []CountResponse `json:"courses_by_semester"`
	StudentsByMajor     []CountResponse `json:"students_by_major"`
	StudentsByYear      []CountResponse `json:"students_by_year"`
	StudentsByStatus    []CountResponse `json:"students_by_status"`
}

// InstructorStatisticsResponse is the teaching overview for one instructor.
type InstructorStatisticsResponse struct {
	Department        string          `json:"department"`
	TotalCourses      int64           `json:"total_courses"`
	ActiveCourses     int64           `json:"active_courses"`
	TotalStudents     int64           `json:"total_students"`
	AverageEnrollment decimal.Decimal `json:"average_enrollment"`
}

// StudentStatisticsResponse is the academic overview for one student.
type StudentStatisticsResponse struct {
	EnrolledCourses int64           `json:"enrolled_courses"`
	TotalCredits    int             `json:"total_credits"`
	ReleasedResults int             `json:"released_results"`
	AverageResult   decimal.Decimal `json:"average_result"`
}

// CourseStatisticsResponse is the enrollment snapshot of one course.
type CourseStatisticsResponse struct {
	CourseCode        string          `json:"course_code"`
	CourseName        string          `json:"course_name"`
	CurrentEnrollment int             `json:"current_enrollment"`
	MaxCapacity       int             `json:"max_capacity"`
	AvailableSpots    int             `json:"available_spots"`
	EnrollmentOpen    bool            `json:"enrollment_open"`
	UtilizationRate   decimal.Decimal `json:"utilization_rate"` // percent
}

// ResultStatisticsResponse summarizes released results for one course.
type ResultStatisticsResponse struct {
	TotalResults  int             `json:"total_results"`
	AverageResult decimal.Decimal `json:"average_result"`
	HighestResult decimal.Decimal `json:"highest_result"`
	LowestResult  decimal.Decimal `json:"lowest_result"`
}

// CountResponse is a single labeled count.
type CountResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
