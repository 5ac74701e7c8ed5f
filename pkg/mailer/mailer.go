package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"github.com/prayerly/prayerly-api/internal/model"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Mailer handles sending emails
type Mailer struct {
	config Config
}

// New creates a new Mailer instance
func New(cfg Config) *Mailer {
	return &Mailer{config: cfg}
}

// SendOTP sends an OTP verification email
func (m *Mailer) SendOTP(toEmail, username, code string, expiryMinutes int) error {
	subject := "Prayerly - Verify your email address"

	body, err := renderOTPTemplate(otpTemplate, username, code, expiryMinutes)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.send(toEmail, subject, body)
}

// SendPasswordReset sends a password reset OTP email
func (m *Mailer) SendPasswordReset(toEmail, username, code string, expiryMinutes int) error {
	subject := "Prayerly - Reset your password"

	body, err := renderOTPTemplate(passwordResetTemplate, username, code, expiryMinutes)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.send(toEmail, subject, body)
}

// SendPrayerReminders sends one batched reminder email covering every due
// prayer for the recipient. The subject switches between singular and plural
// based on the batch size.
func (m *Mailer) SendPrayerReminders(toEmail string, prayers []model.PrayerSummary) error {
	if len(prayers) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Prayer Reminder: %s", prayers[0].Title)
	if len(prayers) > 1 {
		subject = fmt.Sprintf("Prayer Reminders: %d prayers", len(prayers))
	}

	body, err := renderReminderTemplate(prayers)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.send(toEmail, subject, body)
}

// send delivers an email via SMTP
func (m *Mailer) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	var msg bytes.Buffer
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg.Bytes())
	if err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

const otpTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#faf7f2;font-family:Arial,sans-serif;">
    <div style="max-width:500px;margin:40px auto;background:#ffffff;border-radius:12px;overflow:hidden;border:1px solid #e5e0d8;">
        <div style="background:#422ad5;padding:32px;text-align:center;">
            <h1 style="color:#fff;margin:0;font-size:28px;font-weight:700;">🙏 Prayerly</h1>
            <p style="color:rgba(255,255,255,0.85);margin:8px 0 0;font-size:14px;">Email Verification</p>
        </div>
        <div style="padding:32px;">
            <p style="color:#111827;font-size:16px;line-height:1.6;margin:0 0 24px;">
                Hi <strong>{{.Username}}</strong>,
            </p>
            <p style="color:#838995;font-size:14px;line-height:1.6;margin:0 0 24px;">
                Your verification code is:
            </p>
            <div style="background:#faf7f2;border:2px dashed #422ad5;border-radius:12px;padding:24px;text-align:center;margin:0 0 24px;">
                <span style="font-size:36px;font-weight:800;letter-spacing:8px;color:#422ad5;font-family:'Courier New',monospace;">{{.Code}}</span>
            </div>
            <p style="color:#838995;font-size:13px;line-height:1.5;margin:0 0 8px;">
                This code expires in <strong>{{.ExpiryMinutes}} minutes</strong>.
            </p>
            <p style="color:#838995;font-size:13px;line-height:1.5;margin:0;">
                If you didn't create a Prayerly account, please ignore this email.
            </p>
        </div>
        <div style="padding:16px 32px;border-top:1px solid #f3f4f6;text-align:center;">
            <p style="color:#838995;font-size:12px;margin:0;">Sent from Prayerly - Your prayer and reminder app</p>
        </div>
    </div>
</body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#faf7f2;font-family:Arial,sans-serif;">
    <div style="max-width:500px;margin:40px auto;background:#ffffff;border-radius:12px;overflow:hidden;border:1px solid #e5e0d8;">
        <div style="background:#b91c1c;padding:32px;text-align:center;">
            <h1 style="color:#fff;margin:0;font-size:28px;font-weight:700;">🔐 Prayerly</h1>
            <p style="color:rgba(255,255,255,0.85);margin:8px 0 0;font-size:14px;">Password Reset</p>
        </div>
        <div style="padding:32px;">
            <p style="color:#111827;font-size:16px;line-height:1.6;margin:0 0 24px;">
                Hi <strong>{{.Username}}</strong>,
            </p>
            <p style="color:#838995;font-size:14px;line-height:1.6;margin:0 0 24px;">
                We received a request to reset your password. Use this code:
            </p>
            <div style="background:#faf7f2;border:2px dashed #b91c1c;border-radius:12px;padding:24px;text-align:center;margin:0 0 24px;">
                <span style="font-size:36px;font-weight:800;letter-spacing:8px;color:#b91c1c;font-family:'Courier New',monospace;">{{.Code}}</span>
            </div>
            <p style="color:#838995;font-size:13px;line-height:1.5;margin:0 0 8px;">
                This code expires in <strong>{{.ExpiryMinutes}} minutes</strong>.
            </p>
            <p style="color:#838995;font-size:13px;line-height:1.5;margin:0;">
                If you didn't request a password reset, please ignore this email and your password will remain unchanged.
            </p>
        </div>
        <div style="padding:16px 32px;border-top:1px solid #f3f4f6;text-align:center;">
            <p style="color:#838995;font-size:12px;margin:0;">Sent from Prayerly - Your prayer and reminder app</p>
        </div>
    </div>
</body>
</html>`

const reminderTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;">
    <div style="padding:20px;max-width:600px;">
        <h1 style="color:#422ad5;font-size:24px;margin-bottom:10px;">{{.Heading}}</h1>
        <p style="color:#838995;font-size:14px;margin-bottom:20px;">{{.Intro}}</p>
        {{range .Prayers}}
        <div style="background-color:#fafafa;padding:20px;border-radius:8px;margin-top:15px;">
            <h2 style="color:#111827;font-size:20px;margin-top:0;">{{.Title}}</h2>
            {{if .Category}}<p style="color:#838995;font-size:14px;margin-bottom:10px;">Category: {{.Category}}</p>{{end}}
            {{if .Description}}<p style="color:#111827;font-size:16px;line-height:1.5;margin-bottom:0;">{{.Description}}</p>{{end}}
        </div>
        {{end}}
        <p style="color:#838995;font-size:14px;margin-top:20px;">{{.Closing}}</p>
        <p style="color:#838995;font-size:12px;margin-top:30px;border-top:1px solid #f3f4f6;padding-top:15px;">
            Sent from Prayerly - Your prayer and reminder app
        </p>
    </div>
</body>
</html>`

func renderOTPTemplate(tmpl, username, code string, expiryMinutes int) (string, error) {
	t, err := template.New("otp").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]interface{}{
		"Username":      username,
		"Code":          code,
		"ExpiryMinutes": expiryMinutes,
	})
	return buf.String(), err
}

func renderReminderTemplate(prayers []model.PrayerSummary) (string, error) {
	t, err := template.New("reminder").Parse(reminderTemplate)
	if err != nil {
		return "", err
	}

	heading := "Prayer Reminder"
	intro := "You have a prayer reminder for today:"
	closing := "This is a reminder to pray for this request. May God hear and answer your prayers."
	if len(prayers) > 1 {
		heading = fmt.Sprintf("%d Prayer Reminders", len(prayers))
		intro = fmt.Sprintf("You have %d prayer reminders for today:", len(prayers))
		closing = "These are your prayer reminders for today. May God hear and answer your prayers."
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]interface{}{
		"Heading": heading,
		"Intro":   intro,
		"Closing": closing,
		"Prayers": prayers,
	})
	return buf.String(), err
}
