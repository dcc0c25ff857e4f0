package models

import "time"

// Department is an academic department students enroll into.
type Department struct {
	ID              string    `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Head            string    `db:"head" json:"head"`
	EstablishedYear *int      `db:"established_year" json:"establishedYear,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
