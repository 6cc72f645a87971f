package render

import (
	"time"

	"github.com/apelng/offerintake/internal/model"
)

// Assignment binds one logical application attribute to an ordered list of
// candidate template field names, most specific first. The template was
// authored externally and drifts across revisions, so the mapping is a
// fallback chain rather than an exact binding.
type Assignment struct {
	Candidates []string
	Value      string
}

// FieldSetter is the surface an Assignment is resolved against. Returns
// whether the named field exists.
type FieldSetter interface {
	Apply(name, value string) bool
}

// Resolve applies the assignment to the first candidate the setter knows.
// A miss on every candidate is silent and non-fatal; the field is simply
// left at its template default.
func Resolve(s FieldSetter, a Assignment) bool {
	for _, name := range a.Candidates {
		if s.Apply(name, a.Value) {
			return true
		}
	}
	return false
}

// boolText renders a checkbox state the way Apply consumes it.
func boolText(on bool) string {
	if on {
		return "true"
	}
	return "false"
}

// declarationFields are the attestation checkboxes set affirmed on every
// render: submitting the form is treated as implicit consent.
var declarationFields = [][]string{
	{"declaration", "DECLARATION"},
	{"declaration_2", "DECLARATION 2"},
	{"terms_accepted", "I/WE AGREE TO THE TERMS OF THE OFFER"},
}

// PlanFields builds the full assignment list for an application snapshot.
// now supplies the application date; the document always reflects render
// time, since a PDF may be re-rendered on demand.
func PlanFields(app *model.Application, now time.Time) []Assignment {
	plan := make([]Assignment, 0, 48)

	// Salutation: one checkbox per member, every member set explicitly.
	// Exclusivity is a template authoring concern, not assumed here.
	for _, title := range model.Titles() {
		plan = append(plan, Assignment{
			Candidates: []string{string(title)},
			Value:      boolText(app.Title == title),
		})
	}
	if app.Title == model.TitleOthers {
		plan = append(plan, Assignment{
			Candidates: []string{"OTHERS (PLEASE SPECIFY)", "title_others"},
			Value:      app.TitleOthers,
		})
	}

	dob := ""
	if app.DateOfBirth != nil {
		dob = DateText(*app.DateOfBirth)
	}

	country := app.Country
	if country == "" {
		country = "Nigeria"
	}

	plan = append(plan,
		Assignment{[]string{"surname", "SURNAME", "SURNAME / CORPORATE NAME"}, app.Surname},
		Assignment{[]string{"first_name", "FIRST NAME"}, app.FirstName},
		Assignment{[]string{"other_names", "OTHER NAMES"}, app.OtherNames},
		Assignment{[]string{"address", "ADDRESS", "FULL POSTAL ADDRESS"}, app.Address},
		Assignment{[]string{"city", "CITY", "CITY/TOWN"}, app.City},
		Assignment{[]string{"state", "STATE"}, app.State},
		Assignment{[]string{"country", "COUNTRY"}, country},
		Assignment{[]string{"phone", "PHONE", "PHONE NUMBER"}, app.Phone},
		Assignment{[]string{"email", "EMAIL", "E-MAIL"}, app.Email},
		Assignment{[]string{"dob", "DATE OF BIRTH"}, dob},
		Assignment{[]string{"next_of_kin", "NEXT OF KIN"}, app.NextOfKin},
		Assignment{[]string{"contact_person", "CONTACT PERSON"}, app.ContactPerson},

		Assignment{[]string{"shares_applied", "SHARES APPLIED", "NUMBER OF SHARES"}, SharesText(app.SharesApplied)},
		Assignment{[]string{"amount_payable", "AMOUNT", "AMOUNT PAYABLE"}, AmountText(app.AmountPayableKobo)},
		Assignment{[]string{"date", "DATE", "APPLICATION DATE"}, DateText(now)},

		Assignment{[]string{"chn", "CHN"}, app.CHN},
		Assignment{[]string{"cscs_no", "CSCS NO", "CSCS ACCOUNT NUMBER"}, app.CSCSNo},
		Assignment{[]string{"stockbroker", "STOCKBROKER", "NAME OF STOCKBROKER"}, app.Stockbroker.Name},
		Assignment{[]string{"stockbroker_code", "STOCKBROKER CODE"}, app.Stockbroker.Code},

		Assignment{[]string{"bank_name", "BANK NAME"}, app.BankName},
		Assignment{[]string{"account_number", "ACCOUNT NUMBER"}, app.AccountNumber},
		Assignment{[]string{"bvn", "BVN", "BANK VERIFICATION NUMBER"}, app.BVN},
		Assignment{[]string{"branch", "BRANCH"}, app.Branch},
		Assignment{[]string{"bank_city", "BANK CITY"}, app.BankCity},
	)

	// Account classification: explicit member-wise checkboxes, like titles.
	for _, at := range []model.AccountType{model.AccountIndividual, model.AccountCorporate, model.AccountJoint} {
		plan = append(plan, Assignment{
			Candidates: []string{string(at)},
			Value:      boolText(app.AccountType == at),
		})
	}

	if app.AccountType != model.AccountIndividual {
		plan = append(plan,
			Assignment{[]string{"name", "CORPORATE NAME", "NAME"}, app.Name},
			Assignment{[]string{"designation", "DESIGNATION"}, app.Designation},
			Assignment{[]string{"second_name", "SECOND NAME", "2ND NAME"}, app.SecondName},
			Assignment{[]string{"second_designation", "SECOND DESIGNATION", "2ND DESIGNATION"}, app.SecondDesignation},
			Assignment{[]string{"rc_number", "RC NUMBER", "RC NO"}, app.RCNumber},
		)
	}

	// Declarations last, unconditionally affirmed.
	for _, candidates := range declarationFields {
		plan = append(plan, Assignment{Candidates: candidates, Value: "true"})
	}

	return plan
}

// signatureCandidates returns the candidate field names for the signature
// widget matching the account type.
func signatureCandidates(at model.AccountType) []string {
	switch at {
	case model.AccountCorporate:
		return []string{"corporate_signature", "CORPORATE SIGNATURE", "SIGNATURE & COMPANY SEAL"}
	case model.AccountJoint:
		return []string{"joint_signature", "JOINT SIGNATURE", "2ND SIGNATURE"}
	default:
		return []string{"individual_signature", "SIGNATURE", "signature"}
	}
}

// receiptCandidates are the candidate field names for the payment receipt.
func receiptCandidates() []string {
	return []string{"payment_receipt", "PAYMENT RECEIPT", "EVIDENCE OF PAYMENT"}
}
