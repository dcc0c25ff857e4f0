package models

import "database/sql/driver"

// Address is a structured Bangladeshi postal address.
type Address struct {
	Village    string `json:"village" validate:"required"`
	PostOffice string `json:"postOffice" validate:"required"`
	Upazila    string `json:"upazila" validate:"required"`
	District   string `json:"district" validate:"required"`
	Division   string `json:"division" validate:"required"`
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) { return jsonValue(a) }

// Scan implements sql.Scanner.
func (a *Address) Scan(src interface{}) error { return jsonScan(src, a) }

// ApplicantProfile holds the personal, contact and SSC education fields that an
// admission collects and the resulting student record carries verbatim.
type ApplicantProfile struct {
	FullNameBangla     string  `db:"full_name_bangla" json:"fullNameBangla" validate:"required"`
	FullNameEnglish    string  `db:"full_name_english" json:"fullNameEnglish" validate:"required"`
	FatherName         string  `db:"father_name" json:"fatherName" validate:"required"`
	FatherNID          string  `db:"father_nid" json:"fatherNid" validate:"required"`
	MotherName         string  `db:"mother_name" json:"motherName" validate:"required"`
	MotherNID          string  `db:"mother_nid" json:"motherNid" validate:"required"`
	DateOfBirth        Date    `db:"date_of_birth" json:"dateOfBirth"`
	BirthCertificateNo string  `db:"birth_certificate_no" json:"birthCertificateNo"`
	Gender             string  `db:"gender" json:"gender" validate:"required,oneof=male female other"`
	Religion           string  `db:"religion" json:"religion"`
	BloodGroup         string  `db:"blood_group" json:"bloodGroup"`
	Nationality        string  `db:"nationality" json:"nationality"`
	Email              string  `db:"email" json:"email" validate:"omitempty,email"`
	MobileStudent      string  `db:"mobile_student" json:"mobileStudent" validate:"required,mobile11"`
	GuardianName       string  `db:"guardian_name" json:"guardianName"`
	GuardianRelation   string  `db:"guardian_relation" json:"guardianRelation"`
	GuardianMobile     string  `db:"guardian_mobile" json:"guardianMobile" validate:"required,mobile11"`
	PresentAddress     Address `db:"present_address" json:"presentAddress"`
	PermanentAddress   Address `db:"permanent_address" json:"permanentAddress"`
	SSCBoard           string  `db:"ssc_board" json:"sscBoard" validate:"required"`
	SSCRoll            string  `db:"ssc_roll" json:"sscRoll" validate:"required"`
	SSCRegistration    string  `db:"ssc_registration" json:"sscRegistration" validate:"required"`
	SSCPassingYear     int     `db:"ssc_passing_year" json:"sscPassingYear" validate:"required,min=1990,max=2100"`
	SSCGPA             float64 `db:"ssc_gpa" json:"sscGpa" validate:"gte=0,lte=5"`
	SSCGroup           string  `db:"ssc_group" json:"sscGroup"`
	SSCInstitution     string  `db:"ssc_institution" json:"sscInstitution"`
}
