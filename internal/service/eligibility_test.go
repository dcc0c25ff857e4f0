package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func subjects(n int) []models.SubjectGrade {
	out := make([]models.SubjectGrade, n)
	for i := range out {
		out[i] = models.SubjectGrade{Code: string(rune('A' + i))}
	}
	return out
}

func evalStudent(id, roll string, attendance, gpa float64, referred int) models.Student {
	referredCodes := make([]string, referred)
	for i := range referredCodes {
		referredCodes[i] = "R" + string(rune('0'+i))
	}
	return models.Student{
		ID:                id,
		ApplicantProfile:  models.ApplicantProfile{FullNameEnglish: "Student " + id},
		DepartmentID:      "dept-cst",
		Shift:             models.ShiftMorning,
		Semester:          3,
		CurrentRollNumber: roll,
		Status:            models.StudentStatusActive,
		SemesterResults: models.SemesterResults{
			{Semester: 3, Year: 2025, ResultType: models.ResultTypeGPA, GPA: gpa, Subjects: subjects(6), ReferredSubjects: referredCodes},
		},
		SemesterAttendance: models.SemesterAttendances{
			{Semester: 3, Year: 2025, AveragePercentage: floatPtr(attendance)},
		},
	}
}

func TestCurrentAttendance(t *testing.T) {
	student := &models.Student{
		Semester: 2,
		SemesterAttendance: models.SemesterAttendances{
			{Semester: 1, AveragePercentage: floatPtr(99)},
			{Semester: 2, Subjects: []models.SubjectAttendance{
				{Code: "A", Present: 8, Total: 10},
				{Code: "B", Present: 7, Total: 10},
			}},
		},
	}
	assert.InDelta(t, 75.0, currentAttendance(student), 1e-9)

	student.Semester = 3
	assert.Equal(t, 0.0, currentAttendance(student))

	student.SemesterAttendance = models.SemesterAttendances{{Semester: 3}}
	assert.Equal(t, 0.0, currentAttendance(student))
}

func TestStudentMetricsFallsBackToLatestResult(t *testing.T) {
	student := &models.Student{
		Semester: 4,
		SemesterResults: models.SemesterResults{
			{Semester: 1, ResultType: models.ResultTypeGPA, GPA: 3.1},
			{Semester: 3, ResultType: models.ResultTypeReferred, GPA: 2.8, CGPA: floatPtr(3.0), Subjects: subjects(5), ReferredSubjects: []string{"X"}},
		},
	}
	metrics, ok := StudentMetrics(student)
	require.True(t, ok)
	assert.Equal(t, 2.8, metrics.GPA)
	assert.Equal(t, 3.0, metrics.CGPA)
	assert.Equal(t, 5, metrics.TotalSubjects)
	assert.Equal(t, 1, metrics.ReferredSubjects)
	assert.Equal(t, 4, metrics.PassedSubjects)

	student.SemesterResults = nil
	metrics, ok = StudentMetrics(student)
	assert.False(t, ok)
	assert.Equal(t, 0.0, metrics.GPA)
	assert.Equal(t, 0, metrics.TotalSubjects)
}

func TestPassRule(t *testing.T) {
	cases := []struct {
		requirement models.PassRequirement
		referred    int
		want        bool
	}{
		{models.PassAllPass, 0, true},
		{models.PassAllPass, 1, false},
		{models.PassOneReferred, 1, true},
		{models.PassOneReferred, 2, false},
		{models.PassTwoReferred, 2, true},
		{models.PassTwoReferred, 3, false},
		{models.PassAny, 9, true},
		{models.PassRequirement("bogus"), 0, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, passRule(tc.referred, tc.requirement), "%s/%d", tc.requirement, tc.referred)
	}
}

func TestEvaluateEligibilityScenario(t *testing.T) {
	criteria := &models.StipendCriteria{MinAttendance: 75, MinGPA: floatPtr(3.0), PassRequirement: models.PassAllPass}

	a := evalStudent("a", "CST-2024-001", 80, 3.5, 0)
	b := evalStudent("b", "CST-2024-002", 90, 3.9, 1)
	c := evalStudent("c", "CST-2024-003", 74.9, 4.0, 0)

	ra := EvaluateEligibility(&a, criteria)
	rb := EvaluateEligibility(&b, criteria)
	rc := EvaluateEligibility(&c, criteria)

	assert.True(t, ra.IsEligible)
	assert.False(t, rb.IsEligible)
	assert.Equal(t, []string{reasonPassRule}, rb.Reasons)
	assert.False(t, rc.IsEligible)
	assert.Equal(t, []string{reasonAttendance}, rc.Reasons)
}

func TestEvaluateEligibilityInclusiveThresholds(t *testing.T) {
	criteria := &models.StipendCriteria{MinAttendance: 75, MinGPA: floatPtr(3.0), PassRequirement: models.PassOneReferred}
	student := evalStudent("edge", "CST-2024-009", 75, 3.0, 1)
	assert.True(t, EvaluateEligibility(&student, criteria).IsEligible)

	criteria.MinGPA = nil
	student.SemesterResults[0].GPA = 0.5
	assert.True(t, EvaluateEligibility(&student, criteria).IsEligible)
}

func TestEvaluateEligibilityMissingResultExcluded(t *testing.T) {
	criteria := &models.StipendCriteria{MinAttendance: 0, PassRequirement: models.PassAny}
	student := evalStudent("n", "CST-2024-010", 100, 0, 0)
	student.SemesterResults = nil

	result := EvaluateEligibility(&student, criteria)
	assert.False(t, result.IsEligible)
	assert.True(t, result.MissingResult)
	assert.Equal(t, []string{reasonMissingResult}, result.Reasons)
}

func TestRankAndSummarize(t *testing.T) {
	results := []dto.EligibilityResult{
		{StudentID: "x", RollNumber: "CST-2024-003", EligibilityMetrics: models.EligibilityMetrics{GPA: 3.5, AttendancePercentage: 80}},
		{StudentID: "y", RollNumber: "CST-2024-001", EligibilityMetrics: models.EligibilityMetrics{GPA: 3.8, AttendancePercentage: 76, ReferredSubjects: 1}},
		{StudentID: "z", RollNumber: "CST-2024-002", EligibilityMetrics: models.EligibilityMetrics{GPA: 3.5, AttendancePercentage: 80}},
	}
	RankEligibility(results)
	assert.Equal(t, "y", results[0].StudentID)
	assert.Equal(t, "z", results[1].StudentID)
	assert.Equal(t, "x", results[2].StudentID)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Rank, results[1].Rank, results[2].Rank})

	stats := SummarizeEligibility(results, 5)
	assert.Equal(t, 5, stats.TotalEvaluated)
	assert.Equal(t, 3, stats.TotalEligible)
	assert.Equal(t, 78.67, stats.AverageAttendance)
	assert.Equal(t, 3.6, stats.AverageGPA)
	assert.Equal(t, 2, stats.AllPassCount)
	assert.Equal(t, 1, stats.ReferredCount)
}

func TestClassRank(t *testing.T) {
	s1 := evalStudent("s1", "CST-2024-001", 80, 3.2, 0)
	s2 := evalStudent("s2", "CST-2024-002", 80, 3.9, 0)
	s3 := evalStudent("s3", "CST-2024-003", 80, 3.2, 0)
	noResult := evalStudent("s4", "CST-2024-004", 80, 0, 0)
	noResult.SemesterResults = nil
	otherShift := evalStudent("s5", "CST-2024-005", 80, 4.0, 0)
	otherShift.Shift = models.ShiftDay

	peers := []models.Student{s1, s2, s3, noResult, otherShift}

	rank, ok := ClassRank(&s3, peers)
	require.True(t, ok)
	assert.Equal(t, 3, rank.Rank)
	assert.Equal(t, 3, rank.Of)

	rank, ok = ClassRank(&s2, peers)
	require.True(t, ok)
	assert.Equal(t, 1, rank.Rank)

	_, ok = ClassRank(&noResult, peers)
	assert.False(t, ok)

	graduated := evalStudent("s6", "CST-2024-006", 80, 4.0, 0)
	graduated.Status = models.StudentStatusGraduated
	_, ok = ClassRank(&graduated, peers)
	assert.False(t, ok)

	rank, ok = ClassRank(&s2, append(peers, graduated))
	require.True(t, ok)
	assert.Equal(t, 1, rank.Rank)
	assert.Equal(t, 3, rank.Of)
}
