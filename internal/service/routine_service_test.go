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

func TestRoutineCreate(t *testing.T) {
	departments := newFakeDepartments(models.Department{ID: cstID, Code: "CST"})
	routines := newFakeRoutines()
	svc := NewRoutineService(routines, departments, nil)
	ctx := context.Background()

	req := dto.CreateRoutineRequest{
		DepartmentID: cstID,
		Session:      "2024-25",
		Semester:     1,
		Shift:        models.ShiftMorning,
		SubjectCode:  "cst101",
		SubjectName:  "Programming Fundamentals",
		DayOfWeek:    0,
		StartTime:    "09:00",
		EndTime:      "10:30",
	}
	routine, err := svc.Create(ctx, staff("t1"), req)
	require.NoError(t, err)
	assert.Equal(t, "CST101", routine.SubjectCode)

	loaded, err := svc.Get(ctx, routine.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:30", loaded.EndTime)

	inverted := req
	inverted.StartTime, inverted.EndTime = "11:00", "10:00"
	_, err = svc.Create(ctx, staff("t1"), inverted)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	unknown := req
	unknown.DepartmentID = "6f1f8a3e-3c55-4f8e-9a57-000000000000"
	_, err = svc.Create(ctx, staff("t1"), unknown)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	badTime := req
	badTime.StartTime = "9am"
	_, err = svc.Create(ctx, staff("t1"), badTime)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(ctx, captain("c1"), req)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	list, err := svc.List(ctx, models.ClassRoutineFilter{DepartmentID: cstID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
