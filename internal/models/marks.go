package models

import "time"

// ExamType enumerates assessments marks are recorded for.
type ExamType string

const (
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeAssignment ExamType = "assignment"
	ExamTypePractical  ExamType = "practical"
	ExamTypeQuiz       ExamType = "quiz"
)

// MarksRecord is one assessment score.
type MarksRecord struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"studentId"`
	SubjectCode   string    `db:"subject_code" json:"subjectCode"`
	SubjectName   string    `db:"subject_name" json:"subjectName"`
	Semester      int       `db:"semester" json:"semester"`
	ExamType      ExamType  `db:"exam_type" json:"examType"`
	MarksObtained float64   `db:"marks_obtained" json:"marksObtained"`
	TotalMarks    float64   `db:"total_marks" json:"totalMarks"`
	RecordedBy    string    `db:"recorded_by" json:"recordedBy"`
	Remarks       string    `db:"remarks" json:"remarks"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Percentage returns obtained/total as a percentage.
func (m MarksRecord) Percentage() float64 {
	if m.TotalMarks <= 0 {
		return 0
	}
	return m.MarksObtained / m.TotalMarks * 100
}

// MarksFilter constrains marks reads.
type MarksFilter struct {
	StudentID   string
	Semester    int
	SubjectCode string
	ExamType    ExamType
}
