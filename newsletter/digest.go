package newsletter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/fwojciec/horizon"
)

// Digest is the data rendered into one subscriber's email.
type Digest struct {
	SiteName       string
	SiteURL        string
	Frequency      horizon.Frequency
	Headlines      []*horizon.Headline
	UnsubscribeURL string
}

// Subject returns the email subject line.
func (d *Digest) Subject() string {
	return fmt.Sprintf("Your %s Tech News Digest", d.Frequency.Label())
}

// UnsubscribeURL builds the one-click unsubscribe link for email.
func UnsubscribeURL(baseURL, email string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", horizon.UnsubscribeToken(email))
	return baseURL + "/api/newsletter/unsubscribe?" + q.Encode()
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 20px; background-color: #f9fafb;">
<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px;">
<div style="background-color: #4f46e5; padding: 24px; text-align: center;">
<h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.SiteName}}</h1>
<p style="color: #e0e7ff; margin: 8px 0 0;">Your {{.Frequency.Label}} Tech News Update</p>
</div>
<div style="padding: 24px;">
{{range .Headlines}}<div style="margin-bottom: 24px; border-bottom: 1px solid #e5e7eb; padding-bottom: 24px;">
{{if .URLToImage}}<img src="{{.URLToImage}}" alt="{{.Title}}" style="width: 100%; height: auto; border-radius: 4px;">
{{end}}<h2 style="margin: 0 0 8px; font-size: 20px;"><a href="{{.URL}}" style="color: #4f46e5; text-decoration: none;">{{.Title}}</a></h2>
{{if .Description}}<p style="margin: 0; color: #4b5563;">{{.Description}}</p>
{{end}}</div>
{{end}}<p style="text-align: center;"><a href="{{.SiteURL}}" style="color: #4f46e5;">Visit {{.SiteName}}</a></p>
</div>
<div style="padding: 24px; text-align: center; font-size: 14px; color: #6b7280;">
<p>You're receiving this email because you subscribed to {{.Frequency}} updates from {{.SiteName}}.</p>
<p><a href="{{.UnsubscribeURL}}" style="color: #4f46e5;">Unsubscribe</a></p>
</div>
</div>
</body>
</html>
`))

// RenderHTML renders the digest email body. Headline fields are escaped
// and URLs with unsafe schemes are neutralized by html/template.
func RenderHTML(d *Digest) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return buf.String(), nil
}
