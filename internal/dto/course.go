package dto

// ── requests ──

// CourseRequest creates or updates a course.
type CourseRequest struct {
	CourseCode     string `json:"course_code"     binding:"required,min=3,max=20"`
	CourseName     string `json:"course_name"     binding:"required,max=200"`
	Description    string `json:"description"     binding:"omitempty"`
	Credits        int    `json:"credits"         binding:"required,min=1,max=6"`
	Department     string `json:"department"      binding:"required,max=100"`
	Semester       int    `json:"semester"        binding:"required,min=1,max=6"`
	StartDate      string `json:"start_date"      binding:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date"        binding:"required,datetime=2006-01-02"`
	Schedule       string `json:"schedule"        binding:"omitempty,max=100"`
	Location       string `json:"location"        binding:"omitempty,max=50"`
	MaxCapacity    int    `json:"max_capacity"    binding:"required,min=1,max=500"`
	EnrollmentOpen *bool  `json:"enrollment_open" binding:"omitempty"`
	InstructorID   string `json:"instructor_id"   binding:"required,uuid"`
}

// ── responses ──

// CourseResponse is the course view, including the derived enrollment
// state the catalog shows.
type CourseResponse struct {
	ID                string                `json:"id"`
	CourseCode        string                `json:"course_code"`
	CourseName        string                `json:"course_name"`
	Description       string                `json:"description,omitempty"`
	Credits           int                   `json:"credits"`
	Department        string                `json:"department"`
	Semester          int                   `json:"semester"`
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	Schedule          string                `json:"schedule,omitempty"`
	Location          string                `json:"location,omitempty"`
	MaxCapacity       int                   `json:"max_capacity"`
	CurrentEnrollment int                   `json:"current_enrollment"`
	AvailableSpots    int                   `json:"available_spots"`
	IsFull            bool                  `json:"is_full"`
	CanEnroll         bool                  `json:"can_enroll"`
	IsActive          bool                  `json:"is_active"`
	EnrollmentOpen    bool                  `json:"enrollment_open"`
	InstructorID      string                `json:"instructor_id"`
	InstructorName    string                `json:"instructor_name,omitempty"`
	InstructorEmail   string                `json:"instructor_email,omitempty"`
	EnrolledStudents  []EnrolledStudentInfo `json:"enrolled_students,omitempty"`
	CreatedAt         string                `json:"created_at"`
	UpdatedAt         string                `json:"updated_at"`
}

// EnrolledStudentInfo is the roster entry embedded in course responses.
type EnrolledStudentInfo struct {
	ID            string `json:"id"`
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Major         string `json:"major"`
	Year          int    `json:"year"`
}
