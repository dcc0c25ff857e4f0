package service

import (
	"context"
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

const defaultRollAttempts = 1000

type rollChecker interface {
	RollExists(ctx context.Context, roll string) (bool, error)
}

// FormatRollNumber renders {CODE}-{year}-{NNN}.
func FormatRollNumber(departmentCode, year string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", strings.ToUpper(strings.TrimSpace(departmentCode)), year, seq)
}

// NextRollNumber returns the first free roll starting at count+1, advancing on collision.
func NextRollNumber(ctx context.Context, checker rollChecker, departmentCode, year string, count, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultRollAttempts
	}
	for seq := count + 1; seq <= count+maxAttempts; seq++ {
		roll := FormatRollNumber(departmentCode, year, seq)
		exists, err := checker.RollExists(ctx, roll)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
		}
		if !exists {
			return roll, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "no free roll number in department session")
}
