package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ItfSmtp interface {
	SendBookingConfirmation(toEmail string, bookingID int, summary string) error
	Configured() bool
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
	host string
	addr string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{auth: auth, mail: mail, host: host, addr: host + ":587"}
}

func (s *smtp) Configured() bool {
	return s.mail != ""
}

func (s *smtp) SendBookingConfirmation(toEmail string, bookingID int, summary string) error {
	to := []string{toEmail}

	message := []byte(fmt.Sprintf("To: %s\r\nSubject: Booking #%d\r\n\r\nA new reservation was recorded.\r\n\r\n%s\r\n",
		toEmail, bookingID, summary))

	if err := smtpPkg.SendMail(s.addr, s.auth, s.mail, to, message); err != nil {
		return err
	}

	return nil
}
