package email

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"pagamentos_xpto/internal/infrastructure/database"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

var (
	ErrMissingEmailFromAddress = errors.New("missing EMAIL_FROM_ADDRESS")
	ErrSESSenderNotConfigured  = errors.New("ses email sender not configured")
)

// SESEmailSender delivers queue items through Amazon SES v2.
//
// Env vars:
//   - EMAIL_FROM_ADDRESS (required; verified SES identity)
//   - AWS credentials/region as in database.NewAWSConfigFromEnv

type SESEmailSender struct {
	client *sesv2.Client
	from   string
}

func NewSESEmailSender(ctx context.Context) (*SESEmailSender, error) {
	from := strings.TrimSpace(os.Getenv("EMAIL_FROM_ADDRESS"))
	if from == "" {
		log.Printf("[email][sender] missing EMAIL_FROM_ADDRESS")
		return nil, ErrMissingEmailFromAddress
	}

	cfg, err := database.NewAWSConfigFromEnv(ctx)
	if err != nil {
		log.Printf("[email][sender] failed creating aws config err=%v", err)
		return nil, err
	}
	log.Printf("[email][sender] SES client initialized from=%s", from)

	return &SESEmailSender{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (s *SESEmailSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if s == nil || s.client == nil {
		return ErrSESSenderNotConfigured
	}

	body := &types.Body{
		Html: &types.Content{Data: aws.String(htmlBody)},
	}
	if strings.TrimSpace(textBody) != "" {
		body.Text = &types.Content{Data: aws.String(textBody)}
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    body,
			},
		},
	})
	if err != nil {
		log.Printf("[email][sender] ses send failed to=%s err=%v", to, err)
		return err
	}
	return nil
}
