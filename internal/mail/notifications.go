package mail

import (
	"fmt"

	"github.com/factumhumanum/registry-backend/internal/model"
)

// WorkReceived confirms a submission has entered review.
func WorkReceived(w *model.Work, c *model.Creator) Message {
	text := fmt.Sprintf(`Hello %s,

Thank you for registering your work '%s' with Factum Humanum.

Your work has been received and is now under review. Our team will verify that it is likely to have been created by humans rather than AI.

A certificate will be issued once the review is complete. You will receive another email with your certificate.

Best regards,
The Factum Humanum Team
`, c.Name, w.Title)

	html := fmt.Sprintf(`<html><body style="font-family: sans-serif;">
<h2>Work received</h2>
<p>Hello %s,</p>
<p>Thank you for registering <strong>%s</strong> with Factum Humanum.</p>
<p>Your work is now under review. A certificate will be issued once the review is complete.</p>
<p>The Factum Humanum Team</p>
</body></html>`, c.Name, w.Title)

	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: fmt.Sprintf("Your work '%s' has been received", w.Title),
		Text:    text,
		HTML:    html,
	}
}

// CertificateApproved carries the link to the issued certificate.
func CertificateApproved(w *model.Work, c *model.Creator, certificateURL string) Message {
	text := fmt.Sprintf(`Hello %s,

Congratulations! Your work '%s' has been approved and your certificate is ready.

You can view and download your certificate at:
%s

Your certificate certifies that '%s' was reviewed and approved as likely human-created by the Factum Humanum team.

Best regards,
The Factum Humanum Team
`, c.Name, w.Title, certificateURL, w.Title)

	html := fmt.Sprintf(`<html><body style="font-family: sans-serif;">
<h2>Your certificate is ready</h2>
<p>Hello %s,</p>
<p>Your work <strong>%s</strong> has been approved.</p>
<p><a href="%s">View and download your certificate</a></p>
<p>The Factum Humanum Team</p>
</body></html>`, c.Name, w.Title, certificateURL)

	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: fmt.Sprintf("Your certificate for '%s' is ready", w.Title),
		Text:    text,
		HTML:    html,
	}
}

// CertificateRejected includes the reviewer's notes explaining the decision.
func CertificateRejected(w *model.Work, c *model.Creator) Message {
	notes := ""
	if w.ReviewerNotes != nil {
		notes = *w.ReviewerNotes
	}

	text := fmt.Sprintf(`Hello %s,

Thank you for submitting '%s' to Factum Humanum.

After review, we were unable to approve this work at this time. Here are the notes from our review team:

%s

You are welcome to resubmit your work with any modifications or additional documentation.

Best regards,
The Factum Humanum Team
`, c.Name, w.Title, notes)

	html := fmt.Sprintf(`<html><body style="font-family: sans-serif;">
<h2>Update on your submission</h2>
<p>Hello %s,</p>
<p>We were unable to approve <strong>%s</strong> at this time.</p>
<p>Reviewer notes:</p>
<blockquote>%s</blockquote>
<p>You are welcome to resubmit with modifications or additional documentation.</p>
<p>The Factum Humanum Team</p>
</body></html>`, c.Name, w.Title, notes)

	return Message{
		To:      c.Email,
		ToName:  c.Name,
		Subject: fmt.Sprintf("Update on your submission '%s'", w.Title),
		Text:    text,
		HTML:    html,
	}
}
