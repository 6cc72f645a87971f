package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apelng/offerintake/internal/model"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		extra   string
		want    []string
	}{
		{
			name:    "single address",
			primary: "ops@example.com",
			want:    []string{"ops@example.com"},
		},
		{
			name:    "comma separated with whitespace",
			primary: "a@example.com, b@example.com ,  c@example.com",
			want:    []string{"a@example.com", "b@example.com", "c@example.com"},
		},
		{
			name:    "duplicates removed, order preserved",
			primary: "a@example.com,b@example.com",
			extra:   "b@example.com,c@example.com,a@example.com",
			want:    []string{"a@example.com", "b@example.com", "c@example.com"},
		},
		{
			name:    "empty input",
			primary: "",
			extra:   " , ,",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecipients(tt.primary, tt.extra))
		})
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "key", "no-reply@example.com", nil, SupportContacts{}, "", nil)
	assert.Error(t, err)

	_, err = New("mg.example.com", "", "no-reply@example.com", nil, SupportContacts{}, "", nil)
	assert.Error(t, err)

	m, err := New("mg.example.com", "key", "no-reply@example.com", nil, SupportContacts{}, "", nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func testApplication() *model.Application {
	return &model.Application{
		ID:                  42,
		AccountType:         model.AccountIndividual,
		Title:               model.TitleMrs,
		Surname:             "Okafor",
		FirstName:           "Adaeze",
		Email:               "adaeze@example.com",
		Phone:               "+2348012345678",
		SharesApplied:       150000,
		AmountPayableKobo:   model.AmountPayableKobo(150000),
		CHN:                 "C123456",
		CSCSNo:              "CSCS-9876",
		Stockbroker:         model.Stockbroker{Name: "Apex Brokers", Code: "APX"},
		IndividualSignature: "data:image/png;base64,AAAA",
		Status:              model.StatusSubmitted,
		CreatedAt:           time.Date(2025, 11, 5, 14, 30, 0, 0, time.UTC),
	}
}

func TestRenderAdminNotification(t *testing.T) {
	app := testApplication()

	html, err := renderAdminNotification(app, "https://admin.example.com/applications/42")
	require.NoError(t, err)

	assert.Contains(t, html, "TIP/PO/000042")
	assert.Contains(t, html, "Okafor")
	assert.Contains(t, html, "Adaeze")
	assert.Contains(t, html, "150,000")
	assert.Contains(t, html, "1,425,000.00")
	assert.Contains(t, html, "Apex Brokers")
	assert.Contains(t, html, "CSCS-9876")
	assert.Contains(t, html, "https://admin.example.com/applications/42")
	assert.Contains(t, html, "Provided")
	assert.Contains(t, html, "Not uploaded")
	// Individual applications carry no representative section.
	assert.NotContains(t, html, "RC Number")
}

func TestRenderAdminNotificationCorporate(t *testing.T) {
	app := testApplication()
	app.AccountType = model.AccountCorporate
	app.Name = "Ngozi Eze"
	app.Designation = "Company Secretary"
	app.RCNumber = "RC-100200"

	html, err := renderAdminNotification(app, "")
	require.NoError(t, err)

	assert.Contains(t, html, "Ngozi Eze")
	assert.Contains(t, html, "Company Secretary")
	assert.Contains(t, html, "RC-100200")
	assert.NotContains(t, html, "Admin Dashboard")
}

func TestRenderApplicantConfirmation(t *testing.T) {
	app := testApplication()
	support := SupportContacts{Email: "support@example.com", Phone: "+234800000000"}

	html, err := renderApplicantConfirmation(app, support)
	require.NoError(t, err)

	assert.Contains(t, html, "Dear MRS Okafor Adaeze")
	assert.Contains(t, html, "TIP/PO/000042")
	assert.Contains(t, html, "150,000 shares")
	assert.Contains(t, html, "1,425,000.00")
	assert.Contains(t, html, "05/11/2025 14:30")
	assert.Contains(t, html, "support@example.com")
	// html/template escapes "+" in text nodes.
	assert.Contains(t, html, "&#43;234800000000")
}

func TestNairaDisplay(t *testing.T) {
	assert.Equal(t, "9,500.00", nairaDisplay(950000))
	assert.Equal(t, "0.50", nairaDisplay(50))
	assert.Equal(t, "1,425,000.00", nairaDisplay(142500000))
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1", groupDigits("1"))
	assert.Equal(t, "999", groupDigits("999"))
	assert.Equal(t, "1,000", groupDigits("1000"))
	assert.Equal(t, "1,425,000", groupDigits("1425000"))
	assert.Equal(t, "-12,345", groupDigits("-12345"))
}
