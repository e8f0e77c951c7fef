package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESNotifier emails alerts to an operator address using AWS SES.
type SESNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	toAddress   string
	logger      *slog.Logger
}

func NewSESNotifier(region, fromAddress, toAddress string, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		toAddress:   toAddress,
		logger:      logger,
	}, nil
}

func (n *SESNotifier) Notify(ctx context.Context, alert Alert) error {
	subject := fmt.Sprintf("Intrusion detected from %s", alert.Address)
	body := fmt.Sprintf(
		"An intrusion was detected by the login scoring service.\n\n"+
			"Address:  %s\nUsername: %s\nTime:     %s\n\n"+
			"The address has been blocked temporarily.\n",
		alert.Address, alert.Username, alert.DetectedAt.UTC().Format(time.RFC3339),
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{n.toAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := n.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	n.logger.Info("alert delivered", slog.String("sink", "ses"), slog.String("address", alert.Address))
	return nil
}
