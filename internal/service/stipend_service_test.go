package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/pkg/export"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

const (
	studentA = "0b7c2f7e-0000-4000-8000-00000000000a"
	studentB = "0b7c2f7e-0000-4000-8000-00000000000b"
	studentC = "0b7c2f7e-0000-4000-8000-00000000000c"
	studentD = "0b7c2f7e-0000-4000-8000-00000000000d"
	studentE = "0b7c2f7e-0000-4000-8000-00000000000e"
)

type memoryCache struct {
	entries  map[string]interface{}
	gets     int
	hits     int
	patterns []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]interface{}{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	value, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	if out, ok := dest.(*dto.CalculationResult); ok {
		*out = *(value.(*dto.CalculationResult))
	}
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	c.entries = map[string]interface{}{}
	return nil
}

type capturingRenderer struct {
	doc  export.Document
	data export.Dataset
}

func (r *capturingRenderer) Render(doc export.Document, data export.Dataset) ([]byte, error) {
	r.doc, r.data = doc, data
	return []byte("%PDF-1.3 stub"), nil
}

type stipendFixture struct {
	svc      *StipendService
	stipends *fakeStipends
	students *fakeStudents
	cache    *memoryCache
	renderer *capturingRenderer
	audit    *recordingAudit
}

func newStipendFixture() *stipendFixture {
	f := &stipendFixture{
		students: newFakeStudents(),
		cache:    newMemoryCache(),
		renderer: &capturingRenderer{},
		audit:    &recordingAudit{},
	}
	f.stipends = newFakeStipends(f.students)
	clock := func() time.Time { return time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC) }
	f.svc = NewStipendService(&inlineTx{}, f.stipends, f.students, f.audit, nil,
		WithStipendCache(f.cache, time.Minute), WithStipendRenderer(f.renderer), WithStipendClock(clock))
	return f
}

func stipendStudent(id, roll string, attendance, gpa float64, referred ...string) models.Student {
	student := activeStudent(id, roll)
	student.Semester = 2
	student.SemesterResults = models.SemesterResults{{
		Semester:         2,
		Year:             2024,
		ResultType:       models.ResultTypeGPA,
		GPA:              gpa,
		Subjects:         []models.SubjectGrade{{Code: "CST201"}, {Code: "CST202"}, {Code: "CST203"}},
		ReferredSubjects: referred,
	}}
	student.SemesterAttendance = models.SemesterAttendances{{Semester: 2, Year: 2024, AveragePercentage: &attendance}}
	return student
}

func seedScenario(f *stipendFixture) {
	f.students.put(stipendStudent(studentA, "CST-2024-001", 80, 3.5))
	f.students.put(stipendStudent(studentB, "CST-2024-002", 90, 3.9, "CST203"))
	f.students.put(stipendStudent(studentC, "CST-2024-003", 74.9, 4.0))
}

func scenarioCriteria(t *testing.T, f *stipendFixture) *models.StipendCriteria {
	t.Helper()
	minGPA := 3.0
	criteria, err := f.svc.CreateCriteria(context.Background(), staff("t1"), dto.CriteriaRequest{
		Name:            "Merit 2025",
		MinAttendance:   75,
		MinGPA:          &minGPA,
		PassRequirement: models.PassAllPass,
	})
	require.NoError(t, err)
	return criteria
}

func TestStipendCalculateAndSave(t *testing.T) {
	f := newStipendFixture()
	ctx := context.Background()
	seedScenario(f)
	criteria := scenarioCriteria(t, f)
	assert.True(t, criteria.IsActive)

	result, err := f.svc.Calculate(ctx, staff("t1"), dto.CalculateRequest{CriteriaID: criteria.ID})
	require.NoError(t, err)
	require.Len(t, result.Eligible, 1)
	assert.Equal(t, studentA, result.Eligible[0].StudentID)
	assert.Equal(t, 1, result.Eligible[0].Rank)

	require.Len(t, result.Ineligible, 2)
	reasons := map[string][]string{}
	for _, verdict := range result.Ineligible {
		reasons[verdict.StudentID] = verdict.Reasons
	}
	assert.Equal(t, []string{reasonPassRule}, reasons[studentB])
	assert.Equal(t, []string{reasonAttendance}, reasons[studentC])

	assert.Equal(t, 3, result.Stats.TotalEvaluated)
	assert.Equal(t, 1, result.Stats.TotalEligible)
	assert.Equal(t, 80.0, result.Stats.AverageAttendance)
	assert.Equal(t, 3.5, result.Stats.AverageGPA)
	assert.Equal(t, 1, result.Stats.AllPassCount)

	ids := make([]string, 0, len(result.Eligible))
	for _, verdict := range result.Eligible {
		ids = append(ids, verdict.StudentID)
	}
	rows, err := f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: ids})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, studentA, rows[0].StudentID)
	require.NotNil(t, rows[0].Rank)
	assert.Equal(t, 1, *rows[0].Rank)
	assert.Equal(t, 3.5, rows[0].GPA)
	assert.Equal(t, []string{models.AuditActionEligibilitySave}, f.audit.actions())
}

func TestStipendCalculateUsesCache(t *testing.T) {
	f := newStipendFixture()
	ctx := context.Background()
	seedScenario(f)
	criteria := scenarioCriteria(t, f)

	_, err := f.svc.Calculate(ctx, staff("t1"), dto.CalculateRequest{CriteriaID: criteria.ID})
	require.NoError(t, err)
	_, err = f.svc.Calculate(ctx, staff("t1"), dto.CalculateRequest{CriteriaID: criteria.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.gets)
	assert.Equal(t, 1, f.cache.hits)

	_, err = f.svc.UpdateCriteria(ctx, staff("t1"), criteria.ID, dto.CriteriaRequest{
		Name: "Merit 2025", MinAttendance: 70, PassRequirement: models.PassOneReferred,
	})
	require.NoError(t, err)
	assert.Contains(t, f.cache.patterns, stipendCachePattern)

	result, err := f.svc.Calculate(ctx, staff("t1"), dto.CalculateRequest{CriteriaID: criteria.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	require.Len(t, result.Eligible, 3)
	assert.Equal(t, studentC, result.Eligible[0].StudentID)
	assert.Equal(t, studentB, result.Eligible[1].StudentID)
}

func TestStipendAdHocCalculation(t *testing.T) {
	f := newStipendFixture()
	seedScenario(f)

	minAttendance := 85.0
	result, err := f.svc.Calculate(context.Background(), staff("t1"), dto.CalculateRequest{MinAttendance: &minAttendance})
	require.NoError(t, err)
	assert.Equal(t, models.PassAny, result.Criteria.PassRequirement)
	require.Len(t, result.Eligible, 1)
	assert.Equal(t, studentB, result.Eligible[0].StudentID)

	_, err = f.svc.Calculate(context.Background(), applicant("u1"), dto.CalculateRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestStipendApprovalTransitions(t *testing.T) {
	f := newStipendFixture()
	ctx := context.Background()
	seedScenario(f)
	criteria := scenarioCriteria(t, f)

	rows, err := f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: []string{studentA, studentB}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	eligible, ineligible := rows[0], rows[1]
	require.True(t, eligible.IsEligible)
	require.False(t, ineligible.IsEligible)
	assert.Nil(t, ineligible.Rank)

	_, err = f.svc.Unapprove(ctx, staff("t1"), eligible.ID)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	approved, err := f.svc.Approve(ctx, staff("t1"), eligible.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "t1", *approved.ApprovedBy)

	_, err = f.svc.Approve(ctx, staff("t1"), eligible.ID)
	assert.True(t, errors.Is(err, appErrors.ErrAlreadyProcessed))

	_, err = f.svc.Approve(ctx, staff("t1"), ineligible.ID)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	// Re-saving keeps approval state.
	rows, err = f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: []string{studentA}})
	require.NoError(t, err)
	assert.True(t, rows[0].IsApproved)

	cleared, err := f.svc.Unapprove(ctx, staff("t1"), eligible.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsApproved)
	assert.Nil(t, cleared.ApprovedBy)
}

func TestStipendSaveUnknownStudent(t *testing.T) {
	f := newStipendFixture()
	seedScenario(f)
	criteria := scenarioCriteria(t, f)

	_, err := f.svc.SaveEligibility(context.Background(), staff("t1"), dto.SaveEligibilityRequest{
		CriteriaID: criteria.ID,
		StudentIDs: []string{studentA, "0b7c2f7e-0000-4000-8000-0000000000ff"},
	})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStipendSaveRejectsStudentsOutsideCriteriaScope(t *testing.T) {
	f := newStipendFixture()
	ctx := context.Background()
	seedScenario(f)
	promoted := stipendStudent(studentD, "CST-2024-004", 95, 3.8)
	promoted.Semester = 3
	f.students.put(promoted)
	graduated := stipendStudent(studentE, "CST-2024-005", 95, 3.8)
	graduated.Status = models.StudentStatusGraduated
	f.students.put(graduated)

	semester := 2
	criteria, err := f.svc.CreateCriteria(ctx, staff("t1"), dto.CriteriaRequest{
		Name:            "Second semester merit",
		Semester:        &semester,
		MinAttendance:   75,
		PassRequirement: models.PassAllPass,
	})
	require.NoError(t, err)

	for _, outside := range []string{studentD, studentE} {
		_, err = f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: []string{studentA, outside}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	}
	assert.Empty(t, f.stipends.eligibility)
	assert.Empty(t, f.audit.actions())

	rows, err := f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: []string{studentA}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, studentA, rows[0].StudentID)
}

func TestStipendCriteriaNameConflict(t *testing.T) {
	f := newStipendFixture()
	scenarioCriteria(t, f)

	_, err := f.svc.CreateCriteria(context.Background(), staff("t1"), dto.CriteriaRequest{Name: "Merit 2025", PassRequirement: models.PassAny})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = f.svc.CreateCriteria(context.Background(), staff("t1"), dto.CriteriaRequest{Name: "Bad rule", PassRequirement: "three_referred"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStipendRoster(t *testing.T) {
	f := newStipendFixture()
	ctx := context.Background()
	seedScenario(f)
	criteria := scenarioCriteria(t, f)

	_, err := f.svc.SaveEligibility(ctx, staff("t1"), dto.SaveEligibilityRequest{CriteriaID: criteria.ID, StudentIDs: []string{studentA, studentB, studentC}})
	require.NoError(t, err)

	content, filename, err := f.svc.Roster(ctx, staff("t1"), criteria.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Equal(t, "stipend-roster-merit-2025.pdf", filename)
	assert.Equal(t, "Stipend roster: Merit 2025", f.renderer.doc.Title)
	require.Len(t, f.renderer.data.Rows, 1)
	assert.Equal(t, "1", f.renderer.data.Rows[0]["rank"])
	assert.Equal(t, "CST-2024-001", f.renderer.data.Rows[0]["roll"])
	assert.Equal(t, "No", f.renderer.data.Rows[0]["approved"])
}
