package libs

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer  *gomail.Dialer
	from    string
	appName string
}

func NewEmailService(host string, port int, user, pass, from, appName string) *EmailService {
	if from == "" {
		from = user
	}
	return &EmailService{
		dialer:  gomail.NewDialer(host, port, user, pass),
		from:    from,
		appName: appName,
	}
}

func (s *EmailService) SendPasswordReset(toEmail, username, link string, expiresAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Atur Ulang Kata Sandi - %s", s.appName))
	m.SetBody("text/html", passwordResetBody(s.appName, username, link, expiresAt))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func passwordResetBody(appName, username, link string, expiresAt time.Time) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #f97316; text-align: center; margin-bottom: 30px; }
        .button { display: inline-block; background-color: #f97316; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">%s</div>
        <p>Halo %s,</p>
        <p>Admin telah meminta pengaturan ulang kata sandi untuk akun Anda. Klik tombol di bawah untuk membuat kata sandi baru:</p>
        <p style="text-align: center; margin: 30px 0;"><a class="button" href="%s">Atur Ulang Kata Sandi</a></p>
        <p><strong>Tautan ini berlaku sampai %s.</strong></p>
        <p>Jika Anda tidak merasa meminta ini, abaikan email ini.</p>
        <div class="footer">
            <p>Email ini dikirim otomatis. Mohon tidak membalas.</p>
        </div>
    </div>
</body>
</html>
	`, html.EscapeString(appName), html.EscapeString(username), html.EscapeString(link), expiresAt.Format("02 Jan 2006 15:04 MST"))
}
