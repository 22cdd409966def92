// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Email is one outbound message with both plain-text and HTML bodies.
// The To field is set by the caller.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// strict strips all markup from requester-supplied strings (display name,
// email) before they are interpolated into mail bodies.
var strict = bluemonday.StrictPolicy()

// stripMarkup removes markup while keeping the result plain text.
// Sanitize HTML-encodes what it keeps, which would put entities in the
// text body and double-escape under html/template, so decode after.
func stripMarkup(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// JoinRequestEmailData holds data for the join-request owner emails.
type JoinRequestEmailData struct {
	AccountID string
	Requester string // display label for the requester, already defaulted
	// ApprovalHint tells the owner how to approve: the wording differs
	// between nested-path and inbox-path requests.
	ApprovalHint string
}

// ApprovalHintNested is the approval instruction for nested-path
// requests, where the owner only flips the status.
func ApprovalHintNested() string {
	return "set status=approved on the join request and add their uid to the account members."
}

// ApprovalHintInbox carries the full record path because the owner has
// to create the nested record the client could not write.
func ApprovalHintInbox(accountID, uid string) string {
	return fmt.Sprintf("create or update join_requests/%s/%s with status=approved and add their uid to the account members.", accountID, uid)
}

// BuildJoinRequestEmail creates the owner notification for a newly
// created join request.
func BuildJoinRequestEmail(data JoinRequestEmailData) Email {
	data.Requester = stripMarkup(data.Requester)
	return Email{
		Subject:  fmt.Sprintf("BudgetBuddy: Join request for %s", data.AccountID),
		TextBody: buildJoinRequestText(data, "is requesting access to"),
		HTMLBody: buildJoinRequestHTML(data, "is requesting access to"),
	}
}

// BuildResubmittedEmail creates the owner notification for a request
// that went back to pending after a denial.
func BuildResubmittedEmail(data JoinRequestEmailData) Email {
	data.Requester = stripMarkup(data.Requester)
	return Email{
		Subject:  fmt.Sprintf("BudgetBuddy: Join request re-submitted for %s", data.AccountID),
		TextBody: buildJoinRequestText(data, "re-submitted a request to access"),
		HTMLBody: buildJoinRequestHTML(data, "re-submitted a request to access"),
	}
}

func buildJoinRequestText(data JoinRequestEmailData, verb string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s %s account %s.\n\n", data.Requester, verb, data.AccountID))
	buf.WriteString("To approve, " + data.ApprovalHint + "\n")
	return buf.String()
}

func buildJoinRequestHTML(data JoinRequestEmailData, verb string) string {
	tmpl := template.Must(template.New("joinrequest").Parse(joinRequestHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, struct {
		JoinRequestEmailData
		Verb string
	}{data, verb})
	return buf.String()
}

const joinRequestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Join Request</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #059669;">BudgetBuddy</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px;">
              <p style="margin: 0 0 16px;"><b>{{.Requester}}</b> {{.Verb}} account <b>{{.AccountID}}</b>.</p>
              <p style="margin: 0; color: #6b7280;">To approve, {{.ApprovalHint}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
