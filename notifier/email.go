package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	gomail "gopkg.in/mail.v2"

	"netflix-explorer/query"
)

// EmailNotifier handles sending catalog digest emails
type EmailNotifier struct {
	smtpHost       string
	smtpPort       int
	senderEmail    string
	senderPass     string
	recipientEmail string
	htmlTemplate   *template.Template
}

// EmailConfig contains configuration for email notifications
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// CatalogDigest is the summary a refresh run reports by email.
type CatalogDigest struct {
	Source       string
	Overview     query.Overview
	TopGenres    []query.Bucket
	TopCountries []query.Bucket
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(config EmailConfig) (*EmailNotifier, error) {
	// Initialize HTML template for digest emails
	tmpl, err := template.New("email").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Netflix Explorer - Catalog Digest</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
        h1 { color: #e50914; }
        h2 { color: #0071c5; margin-top: 30px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 10px; }
        td { padding: 10px; border-bottom: 1px solid #ddd; }
        .footer { font-size: 12px; color: #666; margin-top: 50px; text-align: center; }
        .count { font-weight: bold; color: #e50914; }
        .source { font-style: italic; color: #666; }
    </style>
</head>
<body>
    <h1>Netflix Explorer - Catalog Digest</h1>
    <p>The catalog was refreshed on {{.Date}}.</p>

    <p>Total titles: <span class="count">{{.Overview.Total}}</span>
       ({{.Overview.Movies}} movies, {{.Overview.TVShows}} TV shows)</p>

    {{if .TopGenres}}
    <h2>Top Genres</h2>
    <table>
        <tr>
            <th>Genre</th>
            <th>Titles</th>
        </tr>
        {{range .TopGenres}}
        <tr>
            <td>{{.Key}}</td>
            <td>{{.Count}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}

    {{if .TopCountries}}
    <h2>Top Producing Countries</h2>
    <table>
        <tr>
            <th>Country</th>
            <th>Titles</th>
        </tr>
        {{range .TopCountries}}
        <tr>
            <td>{{.Key}}</td>
            <td>{{.Count}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}

    <div class="source">
        <p>Source: {{.Source}}</p>
    </div>

    <div class="footer">
        <p>This is an automated email from Netflix Explorer. Please do not reply.</p>
    </div>
</body>
</html>
`)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %v", err)
	}

	return &EmailNotifier{
		smtpHost:       config.SMTPHost,
		smtpPort:       config.SMTPPort,
		senderEmail:    config.SenderEmail,
		senderPass:     config.SenderPassword,
		recipientEmail: config.RecipientEmail,
		htmlTemplate:   tmpl,
	}, nil
}

// GetEmailConfigFromEnv loads email configuration from environment variables
func GetEmailConfigFromEnv() EmailConfig {
	// Parse SMTP port with default value of 587 if not specified or invalid
	smtpPort := 587
	if portStr := os.Getenv("EMAIL_SMTP_PORT"); portStr != "" {
		if p, err := fmt.Sscanf(portStr, "%d", &smtpPort); err != nil || p != 1 {
			log.Printf("Invalid SMTP port '%s', using default 587", portStr)
			smtpPort = 587
		}
	}

	smtpHost := os.Getenv("EMAIL_SMTP_HOST")
	senderEmail := os.Getenv("EMAIL_SENDER")
	password := os.Getenv("EMAIL_PASSWORD")
	recipient := os.Getenv("EMAIL_RECIPIENT")

	// Log configuration (without showing full password)
	passwordDisplay := ""
	if len(password) > 0 {
		if len(password) > 8 {
			passwordDisplay = password[:4] + "..." + password[len(password)-4:]
		} else {
			passwordDisplay = "***"
		}
	}

	log.Printf("Email Configuration: Host=%s, Port=%d, Sender=%s, Token=%s, Recipient=%s",
		smtpHost, smtpPort, senderEmail, passwordDisplay, recipient)

	return EmailConfig{
		SMTPHost:       smtpHost,
		SMTPPort:       smtpPort,
		SenderEmail:    senderEmail,
		SenderPassword: password,
		RecipientEmail: recipient,
	}
}

// NotifyCatalogDigest sends an email summarizing a refreshed catalog
func (n *EmailNotifier) NotifyCatalogDigest(digest CatalogDigest) error {
	if digest.Overview.Total == 0 {
		log.Println("Empty catalog, skipping digest email")
		return nil
	}

	if n.recipientEmail == "" {
		log.Println("No recipient email configured, skipping notification")
		return nil
	}

	// Prepare template data
	data := struct {
		Date string
		CatalogDigest
	}{
		Date:          time.Now().Format("January 2, 2006 at 3:04 PM"),
		CatalogDigest: digest,
	}

	// Render email template
	var emailBody bytes.Buffer
	if err := n.htmlTemplate.Execute(&emailBody, data); err != nil {
		return fmt.Errorf("failed to render email template: %v", err)
	}

	// Create a new message using gomail
	m := gomail.NewMessage()

	// Set email headers
	m.SetHeader("From", n.senderEmail)
	m.SetHeader("To", n.recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Netflix Explorer: %d Titles (%d Movies, %d TV Shows)",
		digest.Overview.Total, digest.Overview.Movies, digest.Overview.TVShows))

	// Set both plain text and HTML versions
	plainText := fmt.Sprintf(
		"Netflix Explorer Catalog Digest\n\n"+
			"Catalog refreshed on %s.\n"+
			"Total titles: %d (%d movies, %d TV shows)\n\n"+
			"Source: %s\n\n"+
			"This is an automated email from Netflix Explorer. Please do not reply.",
		data.Date, digest.Overview.Total, digest.Overview.Movies, digest.Overview.TVShows,
		digest.Source)

	m.SetBody("text/plain", plainText)
	m.AddAlternative("text/html", emailBody.String())

	// Setup dialer with Mailtrap SMTP credentials
	// For Mailtrap, username should be "api" and password should be your API token
	d := gomail.NewDialer(n.smtpHost, n.smtpPort, "api", n.senderPass)

	// Send the email
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Digest email sent to %s covering %d titles",
		n.recipientEmail, digest.Overview.Total)
	return nil
}
