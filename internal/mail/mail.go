package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContactMessage - сообщение с формы контактов
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func (m ContactMessage) Subject() string {
	return fmt.Sprintf("New Message from %s", m.Name)
}

func (m ContactMessage) Body() string {
	return fmt.Sprintf("Hi, I'm %s - Phone: %s - Email: %s\nMy message for you: %s", m.Name, m.Phone, m.Email, m.Message)
}

type Notifier interface {
	Send(msg ContactMessage) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier отправляет сообщение владельцу блога через SMTP с PLAIN авторизацией
type SMTPNotifier struct {
	host     string
	port     int
	user     string
	password string
	to       string
	send     sendFunc
}

func NewSMTPNotifier(host string, port int, user, password, to string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (n *SMTPNotifier) Send(msg ContactMessage) error {
	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))
	auth := smtp.PlainAuth("", n.user, n.password, n.host)

	err := n.send(addr, auth, n.user, []string{n.to}, buildMessage(n.user, n.to, msg))
	if err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}

	logrus.WithFields(logrus.Fields{"to": n.to, "from_name": msg.Name}).Info("Contact message sent")
	return nil
}

func buildMessage(from, to string, msg ContactMessage) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Reply-To: " + stripHeader(msg.Email) + "\r\n")
	b.WriteString("Subject: " + stripHeader(msg.Subject()) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

// stripHeader не дает подставить свои заголовки через поля формы
func stripHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// LogNotifier используется, когда SMTP не настроен: сообщение только пишется в лог
type LogNotifier struct{}

func (LogNotifier) Send(msg ContactMessage) error {
	logrus.WithFields(logrus.Fields{
		"name":  msg.Name,
		"email": msg.Email,
		"phone": msg.Phone,
	}).Info("Contact message received (mail delivery disabled)")
	return nil
}
