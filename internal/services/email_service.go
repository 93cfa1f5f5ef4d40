package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/webfinancas/api/pkg/logger"
)

// EmailService is the outbound "send reset email" capability.
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	baseURL     string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, baseURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

// SendPasswordResetEmail sends the reset link holding the opaque token.
func (s *AWSSESEmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)

	htmlBody := fmt.Sprintf(`
<p>You requested a password reset for your account.</p>
<p>Click the link below to choose a new password:</p>
<p><a href="%s">%s</a></p>
<p>This link expires in 1 hour.</p>
<p>If you did not request this, you can safely ignore this email.</p>
`, resetLink, resetLink)

	textBody := fmt.Sprintf(`You requested a password reset for your account.

Open the link below to choose a new password:

%s

This link expires in 1 hour.

If you did not request this, you can safely ignore this email.
`, resetLink)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Reset your password"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send password reset email",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("password reset email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("message_id", *result.MessageId))

	return nil
}
