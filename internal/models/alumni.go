package models

import (
	"database/sql/driver"
	"time"
)

// AlumniType distinguishes fresh graduates from long-standing alumni.
type AlumniType string

const (
	AlumniTypeRecent      AlumniType = "recent"
	AlumniTypeEstablished AlumniType = "established"
)

// SupportCategory classifies the help an alumnus currently needs.
type SupportCategory string

const (
	SupportNoneNeeded      SupportCategory = "no_support_needed"
	SupportExtraNeeded     SupportCategory = "need_extra_support"
	SupportLowIncome       SupportCategory = "low_income"
	SupportJobSeeking      SupportCategory = "job_seeking"
	SupportHigherEducation SupportCategory = "higher_education_support"
)

// Valid reports whether the category is known.
func (c SupportCategory) Valid() bool {
	switch c {
	case SupportNoneNeeded, SupportExtraNeeded, SupportLowIncome, SupportJobSeeking, SupportHigherEducation:
		return true
	}
	return false
}

// SupportTransition is one append-only entry of the support history.
type SupportTransition struct {
	From      *SupportCategory `json:"from,omitempty"`
	To        SupportCategory  `json:"to"`
	ChangedAt time.Time        `json:"changedAt"`
	ChangedBy string           `json:"changedBy"`
	Notes     string           `json:"notes,omitempty"`
}

// SupportHistory is the ordered list of support category transitions.
type SupportHistory []SupportTransition

func (h SupportHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return jsonValue([]SupportTransition(h))
}

func (h *SupportHistory) Scan(src interface{}) error {
	var out []SupportTransition
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*h = out
	return nil
}

// CareerEntry is a position held by an alumnus.
type CareerEntry struct {
	ID          string `json:"id"`
	Position    string `json:"position" validate:"required"`
	Company     string `json:"company" validate:"required"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description,omitempty"`
}

// SkillEntry is a skill an alumnus lists.
type SkillEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Level string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// HighlightEntry is a notable achievement.
type HighlightEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// CourseEntry is further education taken after graduation.
type CourseEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Institution string `json:"institution,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=ongoing completed"`
	CompletedAt string `json:"completedAt,omitempty"`
}

func (e CareerEntry) EntryID() string    { return e.ID }
func (e SkillEntry) EntryID() string     { return e.ID }
func (e HighlightEntry) EntryID() string { return e.ID }
func (e CourseEntry) EntryID() string    { return e.ID }

// CareerList is stored as a JSON array.
type CareerList []CareerEntry

// SkillList is stored as a JSON array.
type SkillList []SkillEntry

// HighlightList is stored as a JSON array.
type HighlightList []HighlightEntry

// CourseList is stored as a JSON array.
type CourseList []CourseEntry

func (l CareerList) Value() (driver.Value, error)    { return listValue(l, len(l)) }
func (l SkillList) Value() (driver.Value, error)     { return listValue(l, len(l)) }
func (l HighlightList) Value() (driver.Value, error) { return listValue(l, len(l)) }
func (l CourseList) Value() (driver.Value, error)    { return listValue(l, len(l)) }

func (l *CareerList) Scan(src interface{}) error    { return jsonScan(src, l) }
func (l *SkillList) Scan(src interface{}) error     { return jsonScan(src, l) }
func (l *HighlightList) Scan(src interface{}) error { return jsonScan(src, l) }
func (l *CourseList) Scan(src interface{}) error    { return jsonScan(src, l) }

func listValue(v interface{}, n int) (driver.Value, error) {
	if n == 0 {
		return []byte("[]"), nil
	}
	return jsonValue(v)
}

// AlumniList names the id-addressable lists on an alumni profile.
type AlumniList string

const (
	AlumniListCareer     AlumniList = "career"
	AlumniListSkills     AlumniList = "skills"
	AlumniListHighlights AlumniList = "highlights"
	AlumniListCourses    AlumniList = "courses"
)

// Alumni is the post-graduation profile of a student.
type Alumni struct {
	ID                     string          `db:"id" json:"id"`
	StudentID              string          `db:"student_id" json:"studentId"`
	AlumniType             AlumniType      `db:"alumni_type" json:"alumniType"`
	GraduationYear         int             `db:"graduation_year" json:"graduationYear"`
	CurrentSupportCategory SupportCategory `db:"current_support_category" json:"currentSupportCategory"`
	SupportHistory         SupportHistory  `db:"support_history" json:"supportHistory"`
	Career                 CareerList      `db:"career" json:"career"`
	Skills                 SkillList       `db:"skills" json:"skills"`
	Highlights             HighlightList   `db:"highlights" json:"highlights"`
	Courses                CourseList      `db:"courses" json:"courses"`
	Bio                    string          `db:"bio" json:"bio"`
	CurrentEmail           string          `db:"current_email" json:"currentEmail"`
	CurrentPhone           string          `db:"current_phone" json:"currentPhone"`
	LinkedInURL            string          `db:"linkedin_url" json:"linkedinUrl"`
	CreatedAt              time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updatedAt"`
}

// AlumniFilter constrains alumni listings.
type AlumniFilter struct {
	AlumniType      AlumniType
	SupportCategory SupportCategory
	GraduationYear  int
	Page            int
	PageSize        int
}
