package models

// StudentProfile carries everything the scorers need to know about a student.
// It is supplied by the caller per request; the core never persists it.
type StudentProfile struct {
	ID                 string             `json:"id" validate:"required"`
	CompletedCourseIDs []string           `json:"completed_course_ids"`
	EnrolledCourseIDs  []string           `json:"enrolled_course_ids"`
	Grades             map[string]float64 `json:"grades,omitempty"` // course id -> final grade, 0-100
	PerformanceSummary map[string]float64 `json:"performance_summary,omitempty"`
}

// NewStudentProfile is the single adapter from upstream representations.
// Scoring logic never branches on how the caller stored its student data.
func NewStudentProfile(id string, completed, enrolled []string, grades map[string]float64) *StudentProfile {
	p := &StudentProfile{
		ID:                 id,
		CompletedCourseIDs: append([]string(nil), completed...),
		EnrolledCourseIDs:  append([]string(nil), enrolled...),
		Grades:             make(map[string]float64, len(grades)),
	}
	for courseID, grade := range grades {
		p.Grades[courseID] = grade
	}
	return p
}

// CompletedSet returns the completed course ids as a set for membership tests.
func (p *StudentProfile) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedCourseIDs))
	for _, id := range p.CompletedCourseIDs {
		set[id] = true
	}
	return set
}

// EnrolledSet returns the enrolled course ids as a set.
func (p *StudentProfile) EnrolledSet() map[string]bool {
	set := make(map[string]bool, len(p.EnrolledCourseIDs))
	for _, id := range p.EnrolledCourseIDs {
		set[id] = true
	}
	return set
}

// AverageGrade returns the mean of recorded grades, or 0 when none exist.
func (p *StudentProfile) AverageGrade() float64 {
	if len(p.Grades) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range p.Grades {
		sum += g
	}
	return sum / float64(len(p.Grades))
}
