package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/apelng/offerintake/internal/model"
)

// titleCase turns an upper-case account type like "INDIVIDUAL" into
// "Individual" for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// groupDigits inserts thousands separators into a plain integer string.
// Separators are fine in email copy; the PDF never gets them.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// nairaDisplay renders a kobo amount as a grouped naira string, e.g.
// 950000 -> "9,500.00".
func nairaDisplay(kobo int64) string {
	s := decimal.NewFromInt(kobo).Div(decimal.NewFromInt(100)).StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	return groupDigits(parts[0]) + "." + parts[1]
}

// sharesDisplay renders a share count with separators.
func sharesDisplay(shares int64) string {
	return groupDigits(fmt.Sprintf("%d", shares))
}

type emailData struct {
	App            *model.Application
	Reference      string
	AccountType    string
	SharesDisplay  string
	AmountDisplay  string
	SubmittedAt    string
	SignatureGiven bool
	ReceiptGiven   bool
	AdminURL       string
	Support        SupportContacts
}

func buildEmailData(app *model.Application) emailData {
	return emailData{
		App:            app,
		Reference:      app.Reference(),
		AccountType:    titleCase(string(app.AccountType)),
		SharesDisplay:  sharesDisplay(app.SharesApplied),
		AmountDisplay:  nairaDisplay(app.AmountPayableKobo),
		SubmittedAt:    app.CreatedAt.Format("02/01/2006 15:04"),
		SignatureGiven: app.Signature() != "",
		ReceiptGiven:   app.PaymentReceipt != "",
	}
}

var adminNotificationTmpl = template.Must(template.New("admin").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">New Public Offer Application</h2>

  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #1e40af; margin-top: 0;">Applicant Information</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; font-weight: bold; width: 40%;">Reference:</td><td>{{.Reference}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Account Type:</td><td>{{.AccountType}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Name:</td><td>{{.App.Title}} {{.App.Surname}} {{.App.FirstName}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Email:</td><td>{{.App.Email}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Phone:</td><td>{{.App.Phone}}</td></tr>
      {{if ne .App.AccountType "INDIVIDUAL"}}
      <tr><td style="padding: 8px 0; font-weight: bold;">Company/Representative:</td><td>{{.App.Name}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Designation:</td><td>{{.App.Designation}}</td></tr>
      {{if .App.RCNumber}}<tr><td style="padding: 8px 0; font-weight: bold;">RC Number:</td><td>{{.App.RCNumber}}</td></tr>{{end}}
      {{end}}
    </table>
  </div>

  <div style="background-color: #f0fdf4; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #166534; margin-top: 0;">Investment Details</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; font-weight: bold;">Shares Applied:</td><td>{{.SharesDisplay}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Amount Payable:</td><td>&#8358;{{.AmountDisplay}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Stockbroker:</td><td>{{.App.Stockbroker.Name}} ({{.App.Stockbroker.Code}})</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Payment Receipt:</td>
        <td>{{if .ReceiptGiven}}Uploaded{{if .App.PaymentReceiptFilename}} ({{.App.PaymentReceiptFilename}}){{end}}{{else}}Not uploaded{{end}}</td></tr>
    </table>
  </div>

  <div style="background-color: #fef3c7; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #92400e; margin-top: 0;">CSCS Details</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; font-weight: bold;">CHN Number:</td><td>{{.App.CHN}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">CSCS Number:</td><td>{{.App.CSCSNo}}</td></tr>
    </table>
  </div>

  <div style="background-color: #fef2f2; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #dc2626; margin-top: 0;">Signature Status</h3>
    <p>{{.AccountType}} Signature: {{if .SignatureGiven}}Provided{{else}}Not provided{{end}}</p>
  </div>

  {{if .AdminURL}}
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.AdminURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View in Admin Dashboard</a>
  </div>
  {{end}}

  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
  <p style="color: #6b7280; font-size: 14px; text-align: center;">
    This is an automated notification from The Initiates PLC Public Offer System.
  </p>
</div>
`))

var applicantConfirmationTmpl = template.Must(template.New("applicant").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #2563eb; margin-bottom: 10px;">The Initiates PLC</h1>
    <p style="color: #6b7280; font-size: 18px;">Public Offer Application Confirmation</p>
  </div>

  <p>Dear {{.App.Title}} {{.App.Surname}} {{.App.FirstName}},</p>

  <p>Thank you for submitting your application for The Initiates PLC Public Offer.
  Your application has been received and is being processed.</p>

  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #1e40af; margin-top: 0;">Application Summary</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; font-weight: bold; width: 40%;">Application Reference:</td><td>{{.Reference}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Account Type:</td><td>{{.AccountType}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Shares Applied For:</td><td>{{.SharesDisplay}} shares</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Total Amount Payable:</td><td style="font-weight: bold; color: #059669;">&#8358;{{.AmountDisplay}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Stockbroker:</td><td>{{.App.Stockbroker.Name}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">CSCS Account:</td><td>{{.App.CSCSNo}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Submission Date:</td><td>{{.SubmittedAt}}</td></tr>
    </table>
  </div>

  <div style="background-color: #fef3c7; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h4 style="color: #92400e; margin-top: 0;">Next Steps</h4>
    <ol style="margin: 0; padding-left: 20px;">
      <li style="margin: 8px 0;">Your application is being reviewed</li>
      <li style="margin: 8px 0;">You will receive allotment details after the offer closing date</li>
      <li style="margin: 8px 0;">Allotted shares will be credited to your CSCS account</li>
      <li style="margin: 8px 0;">You will receive final confirmation via email</li>
    </ol>
  </div>

  {{if or .Support.Email .Support.Phone}}
  <p>If you have any questions about your application, please contact our support team:</p>
  <div style="background-color: #ecfdf5; padding: 15px; border-radius: 8px; margin: 20px 0;">
    {{if .Support.Email}}<p style="margin: 5px 0;">{{.Support.Email}}</p>{{end}}
    {{if .Support.Phone}}<p style="margin: 5px 0;">{{.Support.Phone}}</p>{{end}}
  </div>
  {{end}}

  <p>Best regards,<br><strong>The Initiates PLC Team</strong></p>

  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
  <p style="color: #6b7280; font-size: 12px; text-align: center;">
    This is an automated message. Please do not reply to this email.
  </p>
</div>
`))

func renderAdminNotification(app *model.Application, adminURL string) (string, error) {
	data := buildEmailData(app)
	data.AdminURL = adminURL

	var buf bytes.Buffer
	if err := adminNotificationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderApplicantConfirmation(app *model.Application, support SupportContacts) (string, error) {
	data := buildEmailData(app)
	data.Support = support

	var buf bytes.Buffer
	if err := applicantConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
