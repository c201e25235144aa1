package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/utils"
)

const applicationSubmittedEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Housing Application Received</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; background-color: #f3f4f6; color: #1f2937; margin: 0; padding: 20px; }
  .container { max-width: 600px; margin: auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; }
  .header { background-color: #dbeafe; padding: 15px 20px; border-bottom: 1px solid #bfdbfe; }
  .header h1 { margin: 0; font-size: 20px; color: #1e40af; }
  .content { padding: 20px; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>%s</p>
      <p><strong>Term:</strong> %s<br><strong>Reference:</strong> %s</p>
    </div>
  </div>
</body>
</html>`

// NotificationService sends applicant-facing email and SMS. Every send
// is fire-and-forget on its own goroutine: a provider outage must
// never fail or slow an application or lease transition. Both clients
// are optional; a nil client just logs and skips.
type NotificationService struct {
	sgClient        *sendgrid.Client
	twClient        *twilio.RestClient
	fromEmail       string
	fromPhone       string
	orgName         string
	sendgridSandbox bool
}

func NewNotificationService(
	sgClient *sendgrid.Client,
	twClient *twilio.RestClient,
	fromEmail, fromPhone, orgName string,
	sendgridSandbox bool,
) *NotificationService {
	return &NotificationService{
		sgClient:        sgClient,
		twClient:        twClient,
		fromEmail:       fromEmail,
		fromPhone:       fromPhone,
		orgName:         orgName,
		sendgridSandbox: sendgridSandbox,
	}
}

func (s *NotificationService) ApplicationSubmitted(app *models.Application) {
	subject := fmt.Sprintf("%s: Housing Application Received", s.orgName)
	body := fmt.Sprintf("We received your housing application for %s. We'll be in touch once it has been reviewed.", app.Term)
	go s.send(app, subject, body)
}

func (s *NotificationService) ApplicationDecided(app *models.Application) {
	var subject, body string
	switch app.Status {
	case models.ApplicationStatusApproved:
		subject = fmt.Sprintf("%s: Housing Application Approved", s.orgName)
		body = fmt.Sprintf("Your housing application for %s has been approved.", app.Term)
	case models.ApplicationStatusRejected:
		subject = fmt.Sprintf("%s: Housing Application Update", s.orgName)
		body = fmt.Sprintf("Your housing application for %s was not approved this time.", app.Term)
	default:
		return
	}
	go s.send(app, subject, body)
}

func (s *NotificationService) InvitationCreated(app *models.Application, lease *models.Lease) {
	subject := fmt.Sprintf("%s: Roommate Invitation", s.orgName)
	body := fmt.Sprintf("You've been invited to join a lease for %s. Accept or decline the invitation in your housing portal.", lease.Term)
	go s.send(app, subject, body)
}

func (s *NotificationService) send(app *models.Application, subject, body string) {
	if s.sgClient != nil && app.ContactEmail != "" {
		from := mail.NewEmail(s.orgName, s.fromEmail)
		to := mail.NewEmail("", app.ContactEmail)
		htmlBody := fmt.Sprintf(applicationSubmittedEmailHTML, subject, body, app.Term, app.ID.String())
		msg := mail.NewSingleEmail(from, subject, to, body, htmlBody)
		msg.TrackingSettings = &mail.TrackingSettings{
			ClickTracking: &mail.ClickTrackingSetting{
				Enable: utils.Ptr(false),
			},
		}
		if s.sendgridSandbox {
			ms := mail.NewMailSettings()
			ms.SetSandboxMode(mail.NewSetting(true))
			msg.MailSettings = ms
		}
		if _, err := s.sgClient.Send(msg); err != nil {
			utils.Logger.WithError(err).Warnf("Email send failure for application %s", app.ID)
		}
	} else if app.ContactEmail != "" {
		utils.Logger.Warnf("SendGrid client is nil, skipping email for application %s", app.ID)
	}

	if app.ContactPhone == nil || *app.ContactPhone == "" {
		return
	}
	if s.twClient != nil {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(*app.ContactPhone)
		params.SetFrom(s.fromPhone)
		params.SetBody(subject + " :: " + body)
		if _, err := s.twClient.Api.CreateMessage(params); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send SMS for application %s", app.ID)
		}
	} else {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS for application %s", app.ID)
	}
}
