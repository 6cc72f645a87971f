package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apelng/offerintake/internal/model"
)

// recordingSetter knows a fixed field set and records every applied value.
type recordingSetter struct {
	known   map[string]bool
	applied map[string]string
}

func newRecordingSetter(names ...string) *recordingSetter {
	s := &recordingSetter{
		known:   make(map[string]bool),
		applied: make(map[string]string),
	}
	for _, n := range names {
		s.known[n] = true
	}
	return s
}

func (s *recordingSetter) Apply(name, value string) bool {
	if !s.known[name] {
		return false
	}
	s.applied[name] = value
	return true
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		known      []string
		assignment Assignment
		wantHit    string
		wantOK     bool
	}{
		{
			name:       "first candidate wins",
			known:      []string{"surname", "SURNAME"},
			assignment: Assignment{Candidates: []string{"surname", "SURNAME"}, Value: "Okafor"},
			wantHit:    "surname",
			wantOK:     true,
		},
		{
			name:       "falls through to later candidate",
			known:      []string{"SURNAME / CORPORATE NAME"},
			assignment: Assignment{Candidates: []string{"surname", "SURNAME", "SURNAME / CORPORATE NAME"}, Value: "Okafor"},
			wantHit:    "SURNAME / CORPORATE NAME",
			wantOK:     true,
		},
		{
			name:       "miss on every candidate is silent",
			known:      []string{"unrelated"},
			assignment: Assignment{Candidates: []string{"surname", "SURNAME"}, Value: "Okafor"},
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRecordingSetter(tt.known...)
			ok := Resolve(s, tt.assignment)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.assignment.Value, s.applied[tt.wantHit])
				assert.Len(t, s.applied, 1, "only the first matching candidate receives the value")
			} else {
				assert.Empty(t, s.applied)
			}
		})
	}
}

func testApplication() *model.Application {
	dob := time.Date(1988, time.March, 9, 0, 0, 0, 0, time.UTC)
	return &model.Application{
		ID:                1,
		SharesApplied:     1000,
		AmountPayableKobo: model.AmountPayableKobo(1000),
		AccountType:       model.AccountIndividual,
		Title:             model.TitleMrs,
		Surname:           "Okafor",
		FirstName:         "Adaeze",
		Address:           "12 Marina Road",
		City:              "Port Harcourt",
		State:             "Rivers",
		Phone:             "+2348012345678",
		Email:             "adaeze@example.com",
		DateOfBirth:       &dob,
		CHN:               "C123456",
		CSCSNo:            "CSCS-9876",
		Stockbroker:       model.Stockbroker{Name: "Apex Brokers", Code: "APX"},
		Status:            model.StatusSubmitted,
	}
}

func planMap(t *testing.T, plan []Assignment) map[string]string {
	t.Helper()
	m := make(map[string]string)
	for _, a := range plan {
		require.NotEmpty(t, a.Candidates)
		m[a.Candidates[0]] = a.Value
	}
	return m
}

func TestPlanFields_TitleMembers(t *testing.T) {
	now := time.Date(2025, time.November, 5, 10, 0, 0, 0, time.UTC)
	m := planMap(t, PlanFields(testApplication(), now))

	assert.Equal(t, "false", m["MR"])
	assert.Equal(t, "true", m["MRS"])
	assert.Equal(t, "false", m["MISS"])
	assert.Equal(t, "false", m["OTHERS"])
	assert.NotContains(t, m, "OTHERS (PLEASE SPECIFY)")
}

func TestPlanFields_TitleOthersSpecify(t *testing.T) {
	app := testApplication()
	app.Title = model.TitleOthers
	app.TitleOthers = "Dr"
	m := planMap(t, PlanFields(app, time.Now()))

	assert.Equal(t, "true", m["OTHERS"])
	assert.Equal(t, "Dr", m["OTHERS (PLEASE SPECIFY)"])
}

func TestPlanFields_InvestmentValues(t *testing.T) {
	now := time.Date(2025, time.November, 5, 10, 0, 0, 0, time.UTC)
	m := planMap(t, PlanFields(testApplication(), now))

	assert.Equal(t, "1000", m["shares_applied"])
	assert.Equal(t, "9500.00", m["amount_payable"],
		"kobo storage converted exactly once at render")
	assert.Equal(t, "05/11/2025", m["date"], "application date reflects render time")
	assert.Equal(t, "09/03/1988", m["dob"])
}

func TestPlanFields_CountryDefault(t *testing.T) {
	app := testApplication()
	app.Country = ""
	m := planMap(t, PlanFields(app, time.Now()))
	assert.Equal(t, "Nigeria", m["country"])

	app.Country = "Ghana"
	m = planMap(t, PlanFields(app, time.Now()))
	assert.Equal(t, "Ghana", m["country"])
}

func TestPlanFields_AccountTypeConditionals(t *testing.T) {
	individual := planMap(t, PlanFields(testApplication(), time.Now()))
	assert.Equal(t, "true", individual["INDIVIDUAL"])
	assert.Equal(t, "false", individual["CORPORATE"])
	assert.NotContains(t, individual, "rc_number",
		"representative fields are corporate/joint only")

	app := testApplication()
	app.AccountType = model.AccountCorporate
	app.Name = "Bonny Energy Ltd"
	app.Designation = "Director"
	app.RCNumber = "RC-102030"
	corporate := planMap(t, PlanFields(app, time.Now()))

	assert.Equal(t, "true", corporate["CORPORATE"])
	assert.Equal(t, "Bonny Energy Ltd", corporate["name"])
	assert.Equal(t, "RC-102030", corporate["rc_number"])
}

func TestPlanFields_DeclarationsAlwaysAffirmed(t *testing.T) {
	plan := PlanFields(testApplication(), time.Now())
	m := planMap(t, plan)
	assert.Equal(t, "true", m["declaration"])

	// Declarations are applied last.
	last := plan[len(plan)-1]
	assert.Equal(t, "true", last.Value)
}

func TestPlanFields_NilDateOfBirth(t *testing.T) {
	app := testApplication()
	app.DateOfBirth = nil
	m := planMap(t, PlanFields(app, time.Now()))
	assert.Equal(t, "", m["dob"], "absent values render as empty, never a literal null")
}

func TestSignatureCandidates(t *testing.T) {
	assert.Contains(t, signatureCandidates(model.AccountIndividual), "individual_signature")
	assert.Contains(t, signatureCandidates(model.AccountCorporate), "corporate_signature")
	assert.Contains(t, signatureCandidates(model.AccountJoint), "joint_signature")
}
