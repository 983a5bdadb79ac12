package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/sandunsrimal/university-course-management/config"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// ScheduleService renders a student's course schedule as an iCalendar
// feed, importable into any calendar client.
type ScheduleService struct {
	repo *repository.Repository
	cfg  *config.Config
}

// NewScheduleService creates the schedule service.
func NewScheduleService(repo *repository.Repository, cfg *config.Config) *ScheduleService {
	return &ScheduleService{repo: repo, cfg: cfg}
}

// StudentCalendar builds the ICS feed for one student. Each enrolled
// course becomes one event spanning the course's running dates, with the
// weekly meeting pattern in the description.
func (s *ScheduleService) StudentCalendar(ctx context.Context, studentID string) (string, error) {
	courses, err := s.repo.Course.ListEnrolledByStudent(ctx, studentID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//university-course-management//schedule//EN")
	cal.SetName("Course Schedule")

	now := time.Now()
	for i := range courses {
		c := &courses[i]

		event := cal.AddEvent(fmt.Sprintf("course-%s@%s", c.CourseID, s.calendarHost()))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(c.StartDate)
		event.SetAllDayEndAt(c.EndDate.AddDate(0, 0, 1)) // DTEND is exclusive
		event.SetSummary(fmt.Sprintf("%s %s", c.CourseCode, c.CourseName))
		if c.Location != "" {
			event.SetLocation(c.Location)
		}

		var desc []string
		if c.Schedule != "" {
			desc = append(desc, "Meets: "+c.Schedule)
		}
		if c.Instructor != nil {
			desc = append(desc, "Instructor: "+c.Instructor.FullName())
		}
		desc = append(desc, fmt.Sprintf("Credits: %d", c.Credits))
		event.SetDescription(strings.Join(desc, "\n"))
	}

	return cal.Serialize(), nil
}

func (s *ScheduleService) calendarHost() string {
	host := strings.TrimPrefix(s.cfg.Server.BaseURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return "localhost"
	}
	return host
}
