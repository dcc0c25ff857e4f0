package dto

import "github.com/noah-isme/slms-api/internal/models"

// CreateMarksRequest records one assessment score.
type CreateMarksRequest struct {
	StudentID     string          `json:"studentId" validate:"required,uuid"`
	SubjectCode   string          `json:"subjectCode" validate:"required,max=32"`
	SubjectName   string          `json:"subjectName"`
	Semester      int             `json:"semester" validate:"required,min=1,max=8"`
	ExamType      models.ExamType `json:"examType" validate:"required,oneof=midterm final assignment practical quiz"`
	MarksObtained float64         `json:"marksObtained" validate:"gte=0"`
	TotalMarks    float64         `json:"totalMarks" validate:"gt=0"`
	Remarks       string          `json:"remarks"`
}

// MarksView adds the computed percentage to a marks row.
type MarksView struct {
	models.MarksRecord
	Percentage float64 `json:"percentage"`
}
