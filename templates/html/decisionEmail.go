package templates

import (
	"fmt"
	"html"
	"strings"
)

// DecisionEmail carries the values shown in a decision notification
type DecisionEmail struct {
	CaseNumber   string
	SubjectName  string
	Position     string
	Outcome      string
	Rationale    string
	DecidedBy    string
	DecisionDate string
	// EffectivePeriod is empty when the decision has no effective range
	EffectivePeriod string
	CaseURL         string
}

// DecisionSubject is the subject line of a decision notification
func DecisionSubject(d DecisionEmail) string {
	return fmt.Sprintf("Decision recorded for case %s", d.CaseNumber)
}

// RenderDecisionPlainText is the plain text alternative of RenderDecisionEmail
func RenderDecisionPlainText(d DecisionEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A decision was recorded for disciplinary case %s.\n\n", d.CaseNumber)
	fmt.Fprintf(&b, "Subject: %s (%s)\n", d.SubjectName, d.Position)
	fmt.Fprintf(&b, "Outcome: %s\n", d.Outcome)
	fmt.Fprintf(&b, "Decided by: %s on %s\n", d.DecidedBy, d.DecisionDate)
	if d.EffectivePeriod != "" {
		fmt.Fprintf(&b, "Effective: %s\n", d.EffectivePeriod)
	}
	b.WriteString("\n")
	b.WriteString(d.Rationale)
	if d.CaseURL != "" {
		fmt.Fprintf(&b, "\n\nView the case: %s", d.CaseURL)
	}
	return b.String()
}

// RenderDecisionEmail generates branded HTML for a decision notification.
// Every value is HTML-escaped, the rationale keeps its line breaks.
func RenderDecisionEmail(d DecisionEmail) string {
	rationale := strings.ReplaceAll(html.EscapeString(d.Rationale), "\n", "<br>")
	subject := html.EscapeString(DecisionSubject(d))

	effective := ""
	if d.EffectivePeriod != "" {
		effective = fmt.Sprintf("<tr><td>Effective</td><td>%s</td></tr>", html.EscapeString(d.EffectivePeriod))
	}

	link := ""
	if d.CaseURL != "" {
		link = fmt.Sprintf(`<p><a class="button" href="%s">View case</a></p>`, html.EscapeString(d.CaseURL))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f4f6; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: #7a1f1f; padding: 32px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 32px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .content table td { padding: 4px 12px 4px 0; vertical-align: top; }
    .rationale { margin-top: 20px; padding: 16px; background: #f9fafb; border-left: 3px solid #7a1f1f; }
    .button { color: #7a1f1f; font-weight: 600; text-decoration: none; }
    .footer { padding: 24px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <table>
        <tr><td>Subject</td><td>%s</td></tr>
        <tr><td>Position</td><td>%s</td></tr>
        <tr><td>Outcome</td><td><strong>%s</strong></td></tr>
        <tr><td>Decided by</td><td>%s</td></tr>
        <tr><td>Decision date</td><td>%s</td></tr>
        %s
      </table>
      <div class="rationale">%s</div>
      %s
    </div>
    <div class="footer">
      <p>Internal disciplinary committee notification. Do not forward.</p>
    </div>
  </div>
</body>
</html>`, subject, subject,
		html.EscapeString(d.SubjectName),
		html.EscapeString(d.Position),
		html.EscapeString(d.Outcome),
		html.EscapeString(d.DecidedBy),
		html.EscapeString(d.DecisionDate),
		effective,
		rationale,
		link)
}
