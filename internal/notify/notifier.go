package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"os"

	"go-store-api/internal/model"
)

// Notifier is the downstream collaborator invoked with a finalized order.
// Dispatch is best-effort: a failure is logged and never propagated into the
// checkout transaction.
type Notifier interface {
	OrderCreated(order *model.Order) error
}

// LogNotifier writes order events to the process log. Used when no SMTP
// server is configured and as the test double.
type LogNotifier struct{}

func (LogNotifier) OrderCreated(order *model.Order) error {
	log.Printf("Order %s created for %s (total %s)", order.OrderNumber, order.Email, order.Total.StringFixed(2))
	return nil
}

// SMTPNotifier sends a plain order confirmation email.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// NewNotifierFromEnv returns an SMTP notifier when SMTP_HOST is configured,
// otherwise the log notifier.
func NewNotifierFromEnv() Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return LogNotifier{}
	}
	return &SMTPNotifier{
		Host: host,
		Port: envOr("SMTP_PORT", "587"),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASSWORD"),
		From: envOr("SMTP_FROM", "noreply@example.com"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (n *SMTPNotifier) OrderCreated(order *model.Order) error {
	subject := fmt.Sprintf("Order Confirmation - %s", order.OrderNumber)
	body := fmt.Sprintf(
		"Thank you for your order!\r\n\r\nOrder #%s has been received.\r\nTotal: %s\r\n",
		order.OrderNumber, order.Total.StringFixed(2),
	)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.From, order.Email, subject, body))

	var auth smtp.Auth
	if n.User != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}
	return smtp.SendMail(n.Host+":"+n.Port, auth, n.From, []string{order.Email}, msg)
}

// Dispatch runs the notifier in the background and swallows errors. The
// order commit must never wait on, or fail because of, notification.
func Dispatch(n Notifier, order *model.Order) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Warning: order notification panicked: %v", r)
			}
		}()
		if err := n.OrderCreated(order); err != nil {
			log.Printf("Warning: failed to send order notification for %s: %v", order.OrderNumber, err)
		}
	}()
}
