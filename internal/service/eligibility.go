package service

import (
	"math"
	"sort"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
)

const (
	reasonAttendance    = "attendance below minimum"
	reasonGPA           = "gpa below minimum"
	reasonPassRule      = "referred subjects exceed pass requirement"
	reasonMissingResult = "no semester result recorded"
)

// currentAttendance returns the attendance percentage of the student's current semester.
func currentAttendance(student *models.Student) float64 {
	entry, ok := student.SemesterAttendance.For(student.Semester)
	if !ok {
		return 0
	}
	if entry.AveragePercentage != nil {
		return *entry.AveragePercentage
	}
	var present, total int
	for _, subject := range entry.Subjects {
		present += subject.Present
		total += subject.Total
	}
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

// resolveResult picks the current semester's result, falling back to the latest recorded one.
func resolveResult(student *models.Student) (models.SemesterResult, bool) {
	if result, ok := student.SemesterResults.For(student.Semester); ok {
		return result, true
	}
	return student.SemesterResults.Latest()
}

// StudentMetrics derives the eligibility metrics of a student. The second value is false
// when no semester result exists, in which case only attendance is populated.
func StudentMetrics(student *models.Student) (models.EligibilityMetrics, bool) {
	metrics := models.EligibilityMetrics{AttendancePercentage: currentAttendance(student)}
	result, ok := resolveResult(student)
	if !ok {
		return metrics, false
	}
	metrics.GPA = result.GPA
	metrics.CGPA = result.EffectiveCGPA()
	metrics.TotalSubjects = len(result.Subjects)
	metrics.ReferredSubjects = len(result.ReferredSubjects)
	metrics.PassedSubjects = metrics.TotalSubjects - metrics.ReferredSubjects
	if metrics.PassedSubjects < 0 {
		metrics.PassedSubjects = 0
	}
	return metrics, true
}

// passRule reports whether referred subjects satisfy the requirement.
func passRule(referred int, requirement models.PassRequirement) bool {
	switch requirement {
	case models.PassAllPass:
		return referred == 0
	case models.PassOneReferred:
		return referred <= 1
	case models.PassTwoReferred:
		return referred <= 2
	case models.PassAny:
		return true
	}
	return false
}

// EvaluateEligibility returns the verdict of a student against criteria. Thresholds are inclusive.
func EvaluateEligibility(student *models.Student, criteria *models.StipendCriteria) dto.EligibilityResult {
	metrics, hasResult := StudentMetrics(student)
	result := dto.EligibilityResult{
		StudentID:          student.ID,
		StudentName:        student.FullNameEnglish,
		RollNumber:         student.CurrentRollNumber,
		DepartmentID:       student.DepartmentID,
		Semester:           student.Semester,
		Shift:              student.Shift,
		EligibilityMetrics: metrics,
		MissingResult:      !hasResult,
	}
	if !hasResult {
		result.Reasons = append(result.Reasons, reasonMissingResult)
	}
	if metrics.AttendancePercentage < criteria.MinAttendance {
		result.Reasons = append(result.Reasons, reasonAttendance)
	}
	if hasResult && criteria.MinGPA != nil && metrics.GPA < *criteria.MinGPA {
		result.Reasons = append(result.Reasons, reasonGPA)
	}
	if hasResult && !passRule(metrics.ReferredSubjects, criteria.PassRequirement) {
		result.Reasons = append(result.Reasons, reasonPassRule)
	}
	result.IsEligible = len(result.Reasons) == 0
	return result
}

func rankLess(a, b dto.EligibilityResult) bool {
	if a.GPA != b.GPA {
		return a.GPA > b.GPA
	}
	if a.AttendancePercentage != b.AttendancePercentage {
		return a.AttendancePercentage > b.AttendancePercentage
	}
	return a.RollNumber < b.RollNumber
}

// RankEligibility orders results by (gpa desc, attendance desc, roll asc) and numbers them from 1.
func RankEligibility(results []dto.EligibilityResult) {
	sort.SliceStable(results, func(i, j int) bool { return rankLess(results[i], results[j]) })
	for i := range results {
		results[i].Rank = i + 1
	}
}

// SummarizeEligibility aggregates the eligible set of a run.
func SummarizeEligibility(eligible []dto.EligibilityResult, evaluated int) dto.EligibilityStats {
	stats := dto.EligibilityStats{TotalEvaluated: evaluated, TotalEligible: len(eligible)}
	if len(eligible) == 0 {
		return stats
	}
	var attendance, gpa float64
	for _, r := range eligible {
		attendance += r.AttendancePercentage
		gpa += r.GPA
		if r.ReferredSubjects == 0 {
			stats.AllPassCount++
		} else {
			stats.ReferredCount++
		}
	}
	n := float64(len(eligible))
	stats.AverageAttendance = round2(attendance / n)
	stats.AverageGPA = round2(gpa / n)
	return stats
}

// ClassRank positions student among active peers of the same department, semester and shift
// by (gpa desc, roll asc). Peers without a recorded result are left out. It returns false when
// the student itself has no result or is not active.
func ClassRank(student *models.Student, peers []models.Student) (dto.ClassRank, bool) {
	if student.Status != models.StudentStatusActive {
		return dto.ClassRank{}, false
	}
	type ranked struct {
		id   string
		roll string
		gpa  float64
	}
	var pool []ranked
	seen := false
	for i := range peers {
		peer := &peers[i]
		if peer.Status != models.StudentStatusActive || peer.DepartmentID != student.DepartmentID ||
			peer.Semester != student.Semester || peer.Shift != student.Shift {
			continue
		}
		result, ok := resolveResult(peer)
		if !ok {
			continue
		}
		if peer.ID == student.ID {
			seen = true
		}
		pool = append(pool, ranked{id: peer.ID, roll: peer.CurrentRollNumber, gpa: result.GPA})
	}
	if !seen {
		result, ok := resolveResult(student)
		if !ok {
			return dto.ClassRank{}, false
		}
		pool = append(pool, ranked{id: student.ID, roll: student.CurrentRollNumber, gpa: result.GPA})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].gpa != pool[j].gpa {
			return pool[i].gpa > pool[j].gpa
		}
		return pool[i].roll < pool[j].roll
	})
	for i, entry := range pool {
		if entry.id == student.ID {
			return dto.ClassRank{StudentID: student.ID, Rank: i + 1, Of: len(pool), GPA: entry.gpa}, true
		}
	}
	return dto.ClassRank{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
