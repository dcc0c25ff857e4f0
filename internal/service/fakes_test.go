package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/internal/repository"
)

// inlineTx runs the closure directly; the fakes below are not transactional.
type inlineTx struct{ calls int }

func (t *inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recordingAudit struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (a *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.logs))
	for _, log := range a.logs {
		out = append(out, log.Action)
	}
	return out
}

func uniqueErr(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func staff(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher}
}

func admin(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleAdmin}
}

func applicant(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent, Email: id + "@example.com", FullName: "Applicant " + id}
}

func captain(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleCaptain}
}

// users

type fakeUsers struct {
	users map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]models.User{}}
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUsers) Sync(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	user, ok := f.users[claims.UserID]
	if !ok {
		user = models.User{ID: claims.UserID, AdmissionStatus: models.UserAdmissionNotStarted}
	}
	user.Email = claims.Email
	user.FullName = claims.FullName
	user.Role = claims.Role
	f.users[user.ID] = user
	return &user, nil
}

func (f *fakeUsers) UpdateAdmissionStatus(ctx context.Context, id string, status models.UserAdmissionStatus, relatedProfileID *string) error {
	user, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.AdmissionStatus = status
	if relatedProfileID != nil {
		related := *relatedProfileID
		user.RelatedProfileID = &related
	}
	f.users[id] = user
	return nil
}

// departments

type fakeDepartments struct {
	departments map[string]models.Department
	students    *fakeStudents
}

func newFakeDepartments(items ...models.Department) *fakeDepartments {
	f := &fakeDepartments{departments: map[string]models.Department{}}
	for _, d := range items {
		f.departments[d.ID] = d
	}
	return f
}

func (f *fakeDepartments) List(ctx context.Context) ([]models.Department, error) {
	out := make([]models.Department, 0, len(f.departments))
	for _, d := range f.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeDepartments) FindByID(ctx context.Context, id string) (*models.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (f *fakeDepartments) Create(ctx context.Context, department *models.Department) error {
	for _, d := range f.departments {
		if d.Code == department.Code {
			return uniqueErr(repository.ConstraintDepartmentCode)
		}
	}
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	f.departments[department.ID] = *department
	return nil
}

func (f *fakeDepartments) Update(ctx context.Context, department *models.Department) error {
	if _, ok := f.departments[department.ID]; !ok {
		return sql.ErrNoRows
	}
	f.departments[department.ID] = *department
	return nil
}

func (f *fakeDepartments) Delete(ctx context.Context, id string) error {
	if _, ok := f.departments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.departments, id)
	return nil
}

func (f *fakeDepartments) HasStudents(ctx context.Context, id string) (bool, error) {
	if f.students == nil {
		return false, nil
	}
	for _, s := range f.students.students {
		if s.DepartmentID == id {
			return true, nil
		}
	}
	return false, nil
}

// admissions

type fakeAdmissions struct {
	admissions map[string]models.Admission
}

func newFakeAdmissions() *fakeAdmissions {
	return &fakeAdmissions{admissions: map[string]models.Admission{}}
}

func (f *fakeAdmissions) find(match func(models.Admission) bool) (*models.Admission, error) {
	for _, a := range f.admissions {
		if match(a) {
			copied := a
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdmissions) FindByID(ctx context.Context, id string) (*models.Admission, error) {
	return f.find(func(a models.Admission) bool { return a.ID == id })
}

func (f *fakeAdmissions) FindByIDForUpdate(ctx context.Context, id string) (*models.Admission, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeAdmissions) FindByApplicationID(ctx context.Context, applicationID string) (*models.Admission, error) {
	return f.find(func(a models.Admission) bool { return a.ApplicationID == applicationID && !a.IsDraft })
}

func (f *fakeAdmissions) FindSubmittedByUser(ctx context.Context, userID string) (*models.Admission, error) {
	return f.find(func(a models.Admission) bool { return a.UserID == userID && !a.IsDraft })
}

func (f *fakeAdmissions) FindDraftByUser(ctx context.Context, userID string) (*models.Admission, error) {
	return f.find(func(a models.Admission) bool { return a.UserID == userID && a.IsDraft })
}

func (f *fakeAdmissions) Create(ctx context.Context, admission *models.Admission) error {
	for _, a := range f.admissions {
		if !a.IsDraft && a.UserID == admission.UserID {
			return uniqueErr(repository.ConstraintAdmissionUserSubmit)
		}
	}
	if admission.ID == "" {
		admission.ID = uuid.NewString()
	}
	f.admissions[admission.ID] = *admission
	return nil
}

func (f *fakeAdmissions) UpdateSubmission(ctx context.Context, admission *models.Admission) error {
	if _, ok := f.admissions[admission.ID]; !ok {
		return sql.ErrNoRows
	}
	f.admissions[admission.ID] = *admission
	return nil
}

func (f *fakeAdmissions) Review(ctx context.Context, id string, status models.AdmissionStatus, reviewerID string, notes *string, at time.Time) (bool, error) {
	a, ok := f.admissions[id]
	if !ok || a.Status != models.AdmissionStatusPending {
		return false, nil
	}
	a.Status = status
	a.ReviewedBy = &reviewerID
	a.ReviewNotes = notes
	a.ReviewedAt = &at
	f.admissions[id] = a
	return true, nil
}

func (f *fakeAdmissions) Reopen(ctx context.Context, id string, at time.Time) (bool, error) {
	a, ok := f.admissions[id]
	if !ok || a.Status != models.AdmissionStatusRejected {
		return false, nil
	}
	a.Status = models.AdmissionStatusPending
	a.ReviewedBy, a.ReviewNotes, a.ReviewedAt = nil, nil, nil
	a.SubmittedAt = &at
	f.admissions[id] = a
	return true, nil
}

func (f *fakeAdmissions) UpdateDocuments(ctx context.Context, id string, documents models.DocumentMap) error {
	a, ok := f.admissions[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Documents = documents
	f.admissions[id] = a
	return nil
}

func (f *fakeAdmissions) UpsertDraft(ctx context.Context, userID, applicationID string, step int, data models.DraftPayload) (*models.Admission, error) {
	draft, err := f.FindDraftByUser(ctx, userID)
	if err != nil {
		draft = &models.Admission{ID: uuid.NewString(), UserID: userID, IsDraft: true}
	}
	draft.ApplicationID = applicationID
	draft.DraftStep = step
	draft.DraftData = data
	f.admissions[draft.ID] = *draft
	return draft, nil
}

func (f *fakeAdmissions) DeleteDraft(ctx context.Context, userID string) (bool, error) {
	for id, a := range f.admissions {
		if a.UserID == userID && a.IsDraft {
			delete(f.admissions, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAdmissions) List(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, int, error) {
	var out []models.Admission
	for _, a := range f.admissions {
		if a.IsDraft || (filter.Status != "" && a.Status != filter.Status) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

// students

type fakeStudents struct {
	students map[string]models.Student
	alumni   *fakeAlumni
	locks    []string
}

func newFakeStudents() *fakeStudents {
	return &fakeStudents{students: map[string]models.Student{}}
}

func (f *fakeStudents) put(student models.Student) {
	f.students[student.ID] = student
}

func (f *fakeStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStudents) FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeStudents) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	for _, s := range f.students {
		if s.UserID != nil && *s.UserID == userID {
			copied := s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudents) matching(filter models.StudentFilter) []models.Student {
	var out []models.Student
	for _, s := range f.students {
		if filter.DepartmentID != "" && s.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Semester > 0 && s.Semester != filter.Semester {
			continue
		}
		if filter.Shift != "" && s.Shift != filter.Shift {
			continue
		}
		if filter.Session != "" && s.Session != filter.Session {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.FullNameEnglish), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentRollNumber < out[j].CurrentRollNumber })
	return out
}

func (f *fakeStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := f.matching(filter)
	return out, len(out), nil
}

func (f *fakeStudents) Scan(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	return f.matching(filter), nil
}

func (f *fakeStudents) ListPeers(ctx context.Context, departmentID string, semester int, shift string) ([]models.Student, error) {
	return f.matching(models.StudentFilter{DepartmentID: departmentID, Semester: semester, Shift: shift, Status: models.StudentStatusActive}), nil
}

func (f *fakeStudents) LockScope(ctx context.Context, departmentID, session string) error {
	f.locks = append(f.locks, departmentID+"|"+session)
	return nil
}

func (f *fakeStudents) CountInScope(ctx context.Context, departmentID, session string) (int, error) {
	return len(f.matching(models.StudentFilter{DepartmentID: departmentID, Session: session})), nil
}

func (f *fakeStudents) RollExists(ctx context.Context, roll string) (bool, error) {
	for _, s := range f.students {
		if s.CurrentRollNumber == roll {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudents) RegistrationExists(ctx context.Context, registration string) (bool, error) {
	for _, s := range f.students {
		if s.CurrentRegistrationNumber == registration {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudents) Create(ctx context.Context, student *models.Student) error {
	if taken, _ := f.RollExists(ctx, student.CurrentRollNumber); taken {
		return uniqueErr(repository.ConstraintStudentRollNumber)
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudents) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudents) UpdateResults(ctx context.Context, id string, results models.SemesterResults) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.SemesterResults = results
	f.students[id] = s
	return nil
}

func (f *fakeStudents) UpdateAttendance(ctx context.Context, id string, attendance models.SemesterAttendances) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.SemesterAttendance = attendance
	f.students[id] = s
	return nil
}

func (f *fakeStudents) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Status = status
	f.students[id] = s
	return nil
}

func (f *fakeStudents) field(s *models.Student, name string) *string {
	switch name {
	case "full_name_english":
		return &s.FullNameEnglish
	case "father_name":
		return &s.FatherName
	case "email":
		return &s.Email
	case "mobile_student":
		return &s.MobileStudent
	case "shift":
		return &s.Shift
	}
	return nil
}

func (f *fakeStudents) FieldValue(ctx context.Context, id, field string) (string, error) {
	s, ok := f.students[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	if ptr := f.field(&s, field); ptr != nil {
		return *ptr, nil
	}
	return "", nil
}

func (f *fakeStudents) UpdateField(ctx context.Context, id, field, value string) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	if ptr := f.field(&s, field); ptr != nil {
		*ptr = value
	}
	f.students[id] = s
	return nil
}

func (f *fakeStudents) RevertOrphanedGraduates(ctx context.Context) ([]string, error) {
	var ids []string
	for id, s := range f.students {
		if s.Status != models.StudentStatusGraduated {
			continue
		}
		if f.alumni != nil {
			if exists, _ := f.alumni.ExistsForStudent(ctx, id); exists {
				continue
			}
		}
		s.Status = models.StudentStatusActive
		f.students[id] = s
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// alumni

type fakeAlumni struct {
	alumni map[string]models.Alumni
}

func newFakeAlumni() *fakeAlumni {
	return &fakeAlumni{alumni: map[string]models.Alumni{}}
}

func (f *fakeAlumni) Create(ctx context.Context, alumni *models.Alumni) error {
	if exists, _ := f.ExistsForStudent(ctx, alumni.StudentID); exists {
		return uniqueErr(repository.ConstraintAlumniStudent)
	}
	if alumni.ID == "" {
		alumni.ID = uuid.NewString()
	}
	f.alumni[alumni.ID] = *alumni
	return nil
}

func (f *fakeAlumni) FindByID(ctx context.Context, id string) (*models.Alumni, error) {
	a, ok := f.alumni[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (f *fakeAlumni) FindByIDForUpdate(ctx context.Context, id string) (*models.Alumni, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeAlumni) ExistsForStudent(ctx context.Context, studentID string) (bool, error) {
	for _, a := range f.alumni {
		if a.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAlumni) Update(ctx context.Context, alumni *models.Alumni) error {
	if _, ok := f.alumni[alumni.ID]; !ok {
		return sql.ErrNoRows
	}
	f.alumni[alumni.ID] = *alumni
	return nil
}

func (f *fakeAlumni) List(ctx context.Context, filter models.AlumniFilter) ([]models.Alumni, int, error) {
	var out []models.Alumni
	for _, a := range f.alumni {
		if filter.SupportCategory != "" && a.CurrentSupportCategory != filter.SupportCategory {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

// attendance

type fakeAttendance struct {
	records map[string]models.AttendanceRecord
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{records: map[string]models.AttendanceRecord{}}
}

func attendanceKey(r *models.AttendanceRecord) string {
	if r.ClassRoutineID != nil {
		return r.StudentID + "|r:" + *r.ClassRoutineID + "|" + r.Date.String()
	}
	return r.StudentID + "|s:" + r.SubjectCode + "|" + r.Date.String()
}

func (f *fakeAttendance) Upsert(ctx context.Context, record *models.AttendanceRecord, protect bool) (bool, error) {
	key := attendanceKey(record)
	for id, existing := range f.records {
		if attendanceKey(&existing) != key {
			continue
		}
		if protect && existing.Status.Authoritative() {
			return false, nil
		}
		record.ID = id
		f.records[id] = *record
		return true, nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	f.records[record.ID] = *record
	return true, nil
}

func (f *fakeAttendance) FindByIDsForUpdate(ctx context.Context, ids []string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, id := range ids {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendance) transition(ids []string, from models.AttendanceStatus, apply func(*models.AttendanceRecord)) int64 {
	var n int64
	for _, id := range ids {
		r, ok := f.records[id]
		if !ok || r.Status != from {
			continue
		}
		apply(&r)
		f.records[id] = r
		n++
	}
	return n
}

func (f *fakeAttendance) Approve(ctx context.Context, ids []string, approverID string, at time.Time) (int64, error) {
	return f.transition(ids, models.AttendanceStatusPending, func(r *models.AttendanceRecord) {
		r.Status = models.AttendanceStatusApproved
		r.ApprovedBy = &approverID
		r.ApprovedAt = &at
	}), nil
}

func (f *fakeAttendance) Reject(ctx context.Context, ids []string, reviewerID, reason string, at time.Time) (int64, error) {
	return f.transition(ids, models.AttendanceStatusPending, func(r *models.AttendanceRecord) {
		r.Status = models.AttendanceStatusRejected
		r.ApprovedBy = &reviewerID
		r.RejectionReason = &reason
	}), nil
}

func (f *fakeAttendance) SubmitDrafts(ctx context.Context, ids []string, authorID string) (int64, error) {
	var n int64
	for _, id := range ids {
		r, ok := f.records[id]
		if !ok || r.Status != models.AttendanceStatusDraft || r.RecordedBy != authorID {
			continue
		}
		r.Status = models.AttendanceStatusPending
		f.records[id] = r
		n++
	}
	return n, nil
}

func (f *fakeAttendance) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, r := range f.records {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.RecordedBy != "" && r.RecordedBy != filter.RecordedBy {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, status := range filter.Statuses {
				if r.Status == status {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAttendance) Summary(ctx context.Context, studentID string, semester int) ([]models.SubjectAttendanceSummary, error) {
	bySubject := map[string]*models.SubjectAttendanceSummary{}
	for _, r := range f.records {
		if r.StudentID != studentID || !r.Status.Authoritative() || (semester > 0 && r.Semester != semester) {
			continue
		}
		summary, ok := bySubject[r.SubjectCode]
		if !ok {
			summary = &models.SubjectAttendanceSummary{SubjectCode: r.SubjectCode, SubjectName: r.SubjectName}
			bySubject[r.SubjectCode] = summary
		}
		summary.Total++
		if r.IsPresent {
			summary.Present++
		}
	}
	out := make([]models.SubjectAttendanceSummary, 0, len(bySubject))
	for _, summary := range bySubject {
		if summary.Total > 0 {
			summary.Percentage = float64(summary.Present) / float64(summary.Total) * 100
		}
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectCode < out[j].SubjectCode })
	return out, nil
}

func (f *fakeAttendance) countByStatus(status models.AttendanceStatus) int {
	n := 0
	for _, r := range f.records {
		if r.Status == status {
			n++
		}
	}
	return n
}

// routines

type fakeRoutines struct {
	routines map[string]models.ClassRoutine
}

func newFakeRoutines(items ...models.ClassRoutine) *fakeRoutines {
	f := &fakeRoutines{routines: map[string]models.ClassRoutine{}}
	for _, r := range items {
		f.routines[r.ID] = r
	}
	return f
}

func (f *fakeRoutines) Create(ctx context.Context, routine *models.ClassRoutine) error {
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	f.routines[routine.ID] = *routine
	return nil
}

func (f *fakeRoutines) FindByID(ctx context.Context, id string) (*models.ClassRoutine, error) {
	r, ok := f.routines[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeRoutines) List(ctx context.Context, filter models.ClassRoutineFilter) ([]models.ClassRoutine, error) {
	var out []models.ClassRoutine
	for _, r := range f.routines {
		if filter.DepartmentID != "" && r.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// stipends

type fakeStipends struct {
	criteria    map[string]models.StipendCriteria
	eligibility map[string]models.StipendEligibility
	students    *fakeStudents
}

func newFakeStipends(students *fakeStudents) *fakeStipends {
	return &fakeStipends{
		criteria:    map[string]models.StipendCriteria{},
		eligibility: map[string]models.StipendEligibility{},
		students:    students,
	}
}

func (f *fakeStipends) CreateCriteria(ctx context.Context, criteria *models.StipendCriteria) error {
	for _, c := range f.criteria {
		if c.Name == criteria.Name {
			return uniqueErr(repository.ConstraintStipendCriteriaName)
		}
	}
	if criteria.ID == "" {
		criteria.ID = uuid.NewString()
	}
	f.criteria[criteria.ID] = *criteria
	return nil
}

func (f *fakeStipends) UpdateCriteria(ctx context.Context, criteria *models.StipendCriteria) error {
	if _, ok := f.criteria[criteria.ID]; !ok {
		return sql.ErrNoRows
	}
	f.criteria[criteria.ID] = *criteria
	return nil
}

func (f *fakeStipends) FindCriteriaByID(ctx context.Context, id string) (*models.StipendCriteria, error) {
	c, ok := f.criteria[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (f *fakeStipends) ListCriteria(ctx context.Context, activeOnly bool) ([]models.StipendCriteria, error) {
	var out []models.StipendCriteria
	for _, c := range f.criteria {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStipends) UpsertEligibility(ctx context.Context, row *models.StipendEligibility) error {
	for id, existing := range f.eligibility {
		if existing.StudentID == row.StudentID && existing.CriteriaID == row.CriteriaID {
			row.ID = id
			row.IsApproved = existing.IsApproved
			row.ApprovedBy = existing.ApprovedBy
			row.ApprovedAt = existing.ApprovedAt
			f.eligibility[id] = *row
			return nil
		}
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	f.eligibility[row.ID] = *row
	return nil
}

func (f *fakeStipends) roll(studentID string) string {
	if s, ok := f.students.students[studentID]; ok {
		return s.CurrentRollNumber
	}
	return ""
}

func (f *fakeStipends) Rerank(ctx context.Context, criteriaID string) error {
	var eligible []models.StipendEligibility
	for id, row := range f.eligibility {
		if row.CriteriaID != criteriaID {
			continue
		}
		if !row.IsEligible {
			row.Rank = nil
			f.eligibility[id] = row
			continue
		}
		eligible = append(eligible, row)
	}
	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.GPA != b.GPA {
			return a.GPA > b.GPA
		}
		if a.AttendancePercentage != b.AttendancePercentage {
			return a.AttendancePercentage > b.AttendancePercentage
		}
		return f.roll(a.StudentID) < f.roll(b.StudentID)
	})
	for i, row := range eligible {
		rank := i + 1
		row.Rank = &rank
		f.eligibility[row.ID] = row
	}
	return nil
}

func (f *fakeStipends) ListEligibility(ctx context.Context, criteriaID string) ([]models.StipendEligibility, error) {
	var out []models.StipendEligibility
	for _, row := range f.eligibility {
		if row.CriteriaID != criteriaID {
			continue
		}
		if s, ok := f.students.students[row.StudentID]; ok {
			row.StudentName = s.FullNameEnglish
			row.RollNumber = s.CurrentRollNumber
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Rank, out[j].Rank
		switch {
		case ri != nil && rj != nil:
			return *ri < *rj
		case ri != nil:
			return true
		case rj != nil:
			return false
		}
		return out[i].RollNumber < out[j].RollNumber
	})
	return out, nil
}

func (f *fakeStipends) FindEligibilityByID(ctx context.Context, id string) (*models.StipendEligibility, error) {
	row, ok := f.eligibility[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (f *fakeStipends) SetApproval(ctx context.Context, id string, approved bool, approverID *string, at *time.Time) error {
	row, ok := f.eligibility[id]
	if !ok {
		return sql.ErrNoRows
	}
	row.IsApproved = approved
	row.ApprovedBy = approverID
	row.ApprovedAt = at
	f.eligibility[id] = row
	return nil
}

// corrections

type fakeCorrections struct {
	requests map[string]models.CorrectionRequest
}

func newFakeCorrections() *fakeCorrections {
	return &fakeCorrections{requests: map[string]models.CorrectionRequest{}}
}

func (f *fakeCorrections) Create(ctx context.Context, request *models.CorrectionRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeCorrections) GetByID(ctx context.Context, id string) (*models.CorrectionRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (f *fakeCorrections) GetByIDForUpdate(ctx context.Context, id string) (*models.CorrectionRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCorrections) HasPending(ctx context.Context, studentID, field string) (bool, error) {
	for _, r := range f.requests {
		if r.StudentID == studentID && r.FieldName == field && r.Status == models.CorrectionStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCorrections) List(ctx context.Context, filter models.CorrectionFilter) ([]models.CorrectionRequest, error) {
	var out []models.CorrectionRequest
	for _, r := range f.requests {
		if filter.RequestedBy != "" && r.RequestedBy != filter.RequestedBy {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCorrections) Review(ctx context.Context, id string, status models.CorrectionStatus, reviewerID string, notes *string, at time.Time) (bool, error) {
	r, ok := f.requests[id]
	if !ok || r.Status != models.CorrectionStatusPending {
		return false, nil
	}
	r.Status = status
	r.ReviewedBy = &reviewerID
	r.ReviewNotes = notes
	r.ReviewedAt = &at
	f.requests[id] = r
	return true, nil
}

// marks

type fakeMarks struct {
	records []models.MarksRecord
}

func (f *fakeMarks) Create(ctx context.Context, record *models.MarksRecord) error {
	for _, r := range f.records {
		if r.StudentID == record.StudentID && r.SubjectCode == record.SubjectCode &&
			r.Semester == record.Semester && r.ExamType == record.ExamType {
			return uniqueErr(repository.ConstraintMarksUnique)
		}
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeMarks) List(ctx context.Context, filter models.MarksFilter) ([]models.MarksRecord, error) {
	var out []models.MarksRecord
	for _, r := range f.records {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
