package dto

// ── requests ──

// CourseContentRequest creates or updates a piece of course material.
type CourseContentRequest struct {
	Title       string `json:"title"        binding:"required,max=200"`
	Description string `json:"description"  binding:"omitempty"`
	ContentType string `json:"content_type" binding:"required"`
	Content     string `json:"content"      binding:"omitempty"`
	FilePath    string `json:"file_path"    binding:"omitempty,max=500"`
	SortOrder   int    `json:"sort_order"   binding:"omitempty,min=0"`
	IsPublished *bool  `json:"is_published" binding:"omitempty"`
}

// ── responses ──

// CourseContentResponse is the course material view.
type CourseContentResponse struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Description           string `json:"description,omitempty"`
	ContentType           string `json:"content_type"`
	Content               string `json:"content,omitempty"`
	FilePath              string `json:"file_path,omitempty"`
	SortOrder             int    `json:"sort_order"`
	IsPublished           bool   `json:"is_published"`
	IsActive              bool   `json:"is_active"`
	CourseID              string `json:"course_id"`
	CreatedByInstructorID string `json:"created_by_instructor_id"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}
