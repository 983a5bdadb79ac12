package model

// Content types.
const (
	ContentTypeLectureNotes    = "LECTURE_NOTES"
	ContentTypeAssignment      = "ASSIGNMENT"
	ContentTypeReadingMaterial = "READING_MATERIAL"
	ContentTypeVideo           = "VIDEO"
	ContentTypeDocument        = "DOCUMENT"
	ContentTypePresentation    = "PRESENTATION"
	ContentTypeQuiz            = "QUIZ"
	ContentTypeAnnouncement    = "ANNOUNCEMENT"
	ContentTypeResourceLink    = "RESOURCE_LINK"
	ContentTypeOther           = "OTHER"
)

// ContentTypes lists every recognized content type.
func ContentTypes() []string {
	return []string{
		ContentTypeLectureNotes,
		ContentTypeAssignment,
		ContentTypeReadingMaterial,
		ContentTypeVideo,
		ContentTypeDocument,
		ContentTypePresentation,
		ContentTypeQuiz,
		ContentTypeAnnouncement,
		ContentTypeResourceLink,
		ContentTypeOther,
	}
}

// ValidContentType reports whether t is recognized.
func ValidContentType(t string) bool {
	for _, ct := range ContentTypes() {
		if ct == t {
			return true
		}
	}
	return false
}

// CourseContent is a piece of course material. Published content is
// visible to enrolled students; unpublished content is a draft visible
// only to the owning instructor.
type CourseContent struct {
	ContentID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"content_id"`
	Title                 string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description           string `gorm:"type:text"                                      json:"description"`
	ContentType           string `gorm:"type:varchar(30);not null"                      json:"content_type"`
	Content               string `gorm:"type:text"                                      json:"content"`
	FilePath              string `gorm:"type:varchar(500)"                              json:"file_path"`
	SortOrder             int    `gorm:"not null;default:0"                             json:"sort_order"`
	IsPublished           bool   `gorm:"not null;default:false"                         json:"is_published"`
	IsActive              bool   `gorm:"not null;default:true"                          json:"is_active"`
	CourseID              string `gorm:"type:uuid;not null"                             json:"course_id"`
	CreatedByInstructorID string `gorm:"type:uuid;not null"                             json:"created_by_instructor_id"`
	BaseModel

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName sets the table name.
func (CourseContent) TableName() string { return "course_contents" }
