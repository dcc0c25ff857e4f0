package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/slms-api/internal/dto"
	"github.com/noah-isme/slms-api/internal/models"
	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

func TestDepartmentLifecycle(t *testing.T) {
	repo := newFakeDepartments()
	students := newFakeStudents()
	repo.students = students
	svc := NewDepartmentService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin("a1"), dto.DepartmentRequest{Code: "cst", Name: "Computer Science and Technology"})
	require.NoError(t, err)
	assert.Equal(t, "CST", created.Code)

	_, err = svc.Create(ctx, admin("a1"), dto.DepartmentRequest{Code: "CST", Name: "Duplicate"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(ctx, applicant("u1"), dto.DepartmentRequest{Code: "EEE", Name: "Electrical"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	updated, err := svc.Update(ctx, admin("a1"), created.ID, dto.DepartmentRequest{Code: "CST", Name: "Computer Technology", Head: "Dr. Hasan"})
	require.NoError(t, err)
	assert.Equal(t, "Computer Technology", updated.Name)

	students.put(models.Student{ID: "s1", DepartmentID: created.ID})
	err = svc.Delete(ctx, admin("a1"), created.ID)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	delete(students.students, "s1")
	require.NoError(t, svc.Delete(ctx, admin("a1"), created.ID))

	err = svc.Delete(ctx, admin("a1"), created.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
