package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"

	"github.com/resendlabs/resend-go"
	"github.com/sefazor/examstore-backend/internal/models"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *log.Logger
}

func NewEmailService() *EmailService {
	return &EmailService{
		client:   resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:     os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName: os.Getenv("EMAIL_FROM_NAME"),
		logger:   log.New(os.Stdout, "EMAIL: ", log.LstdFlags),
	}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<h2>Payment received</h2>
<p>Hi {{.FullName}},</p>
<p>We received your payment for order <strong>{{.MerchantOrderID}}</strong>.</p>
<table>
  <tr><td>Amount</td><td>{{.Amount}}</td></tr>
  {{if gt .Discount 0}}<tr><td>Discount</td><td>-{{.Discount}}</td></tr>{{end}}
</table>
<p>Your packages are now active in your account.</p>
`))

// Ödeme makbuzu. Çağıran taraf async çağırır, hata sadece loglanır.
func (s *EmailService) SendPaymentReceipt(to, fullName string, order *models.Order) error {
	s.logger.Printf("Sending payment receipt to: %s (order %s)", to, order.MerchantOrderID)

	var body bytes.Buffer
	err := receiptTemplate.Execute(&body, map[string]interface{}{
		"FullName":        fullName,
		"MerchantOrderID": order.MerchantOrderID,
		"Amount":          order.Amount,
		"Discount":        order.Discount,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{to},
		Subject: "Payment received - " + order.MerchantOrderID,
		Html:    body.String(),
	}

	_, err = s.client.Emails.Send(params)
	if err != nil {
		s.logger.Printf("Failed to send receipt to %s: %v", to, err)
		return err
	}
	return nil
}
