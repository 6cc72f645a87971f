// Package model defines the persistent records of the public-offer intake
// service: share applications, stockbrokers and administrative users.
package model

import (
	"fmt"
	"time"
)

// AccountType classifies an application.
type AccountType string

const (
	AccountIndividual AccountType = "INDIVIDUAL"
	AccountCorporate  AccountType = "CORPORATE"
	AccountJoint      AccountType = "JOINT"
)

// Valid reports whether the account type is one of the known values.
func (a AccountType) Valid() bool {
	switch a {
	case AccountIndividual, AccountCorporate, AccountJoint:
		return true
	}
	return false
}

// Title is the applicant's salutation as printed on the offer form.
type Title string

const (
	TitleMr     Title = "MR"
	TitleMrs    Title = "MRS"
	TitleMiss   Title = "MISS"
	TitleOthers Title = "OTHERS"
)

// Titles lists every salutation in form order. The form carries one checkbox
// per member, so population walks this list explicitly.
func Titles() []Title {
	return []Title{TitleMr, TitleMrs, TitleMiss, TitleOthers}
}

// Status tracks an application through the back-office review flow.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const (
	// UnitPriceKobo is the offer price per share in kobo. Amounts are stored
	// in minor units throughout; the only kobo-to-naira conversion happens
	// when a document or email is produced.
	UnitPriceKobo int64 = 950

	// MinimumShares is the smallest application the offer accepts.
	MinimumShares int64 = 1000
)

// AmountPayableKobo returns the total payable for a share count, in kobo.
func AmountPayableKobo(shares int64) int64 {
	return shares * UnitPriceKobo
}

// Stockbroker is a broker an applicant routes their application through.
type Stockbroker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:32;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUser is a back-office account allowed to review applications.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Application is one public-offer share application. At render time it is
// treated as an immutable snapshot; only Status mutates after creation.
type Application struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SharesApplied     int64 `gorm:"not null" json:"shares_applied"`
	AmountPayableKobo int64 `gorm:"not null" json:"amount_payable_kobo"`

	AccountType AccountType `gorm:"size:16;not null" json:"account_type"`

	Title       Title  `gorm:"size:16" json:"title"`
	TitleOthers string `gorm:"size:64" json:"title_others,omitempty"`
	Surname     string `gorm:"size:255" json:"surname"`
	FirstName   string `gorm:"size:255" json:"first_name"`
	OtherNames  string `gorm:"size:255" json:"other_names,omitempty"`

	Address string `gorm:"size:512" json:"address"`
	City    string `gorm:"size:128" json:"city"`
	State   string `gorm:"size:128" json:"state"`
	Country string `gorm:"size:128" json:"country"`

	Phone       string     `gorm:"size:32" json:"phone"`
	Email       string     `gorm:"size:255" json:"email"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
	NextOfKin   string     `gorm:"size:255" json:"next_of_kin,omitempty"`

	ContactPerson string `gorm:"size:255" json:"contact_person,omitempty"`

	CHN    string `gorm:"size:64" json:"chn"`
	CSCSNo string `gorm:"size:64" json:"cscs_no"`

	StockbrokerID uint        `gorm:"not null" json:"stockbrokers_id"`
	Stockbroker   Stockbroker `gorm:"foreignKey:StockbrokerID" json:"stockbroker"`

	// Representative details, corporate and joint accounts only.
	Name              string `gorm:"size:255" json:"name,omitempty"`
	Designation       string `gorm:"size:128" json:"designation,omitempty"`
	SecondName        string `gorm:"size:255" json:"second_name,omitempty"`
	SecondDesignation string `gorm:"size:128" json:"second_designation,omitempty"`
	RCNumber          string `gorm:"size:64" json:"rc_number,omitempty"`

	// Artifacts: either a data URI, a previously uploaded URL, or empty.
	IndividualSignature    string `gorm:"type:text" json:"individual_signature,omitempty"`
	CorporateSignature     string `gorm:"type:text" json:"corporate_signature,omitempty"`
	JointSignature         string `gorm:"type:text" json:"joint_signature,omitempty"`
	PaymentReceipt         string `gorm:"type:text" json:"payment_receipt,omitempty"`
	PaymentReceiptFilename string `gorm:"size:255" json:"payment_receipt_filename,omitempty"`

	BankName      string `gorm:"size:255" json:"bank_name,omitempty"`
	AccountNumber string `gorm:"size:32" json:"account_number,omitempty"`
	BVN           string `gorm:"size:32" json:"bvn,omitempty"`
	Branch        string `gorm:"size:255" json:"branch,omitempty"`
	BankCity      string `gorm:"size:128" json:"bank_city,omitempty"`

	Status Status `gorm:"size:16;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Signature returns the signature artifact matching the account type. An
// empty string means no signature was supplied; callers must tolerate that.
func (a *Application) Signature() string {
	switch a.AccountType {
	case AccountCorporate:
		return a.CorporateSignature
	case AccountJoint:
		return a.JointSignature
	default:
		return a.IndividualSignature
	}
}

// Reference is the human-facing application reference used in emails.
func (a *Application) Reference() string {
	return fmt.Sprintf("TIP/PO/%06d", a.ID)
}
