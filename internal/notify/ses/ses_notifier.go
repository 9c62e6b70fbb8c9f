package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cargoflow/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	toAddress   string
}

// NewSESNotifier creates a Notifier that delivers notifications as emails to
// the operations inbox via Amazon SES.
func NewSESNotifier(region, fromAddress, toAddress string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		toAddress:   toAddress,
	}, nil
}

func (s *sesNotifier) Send(ctx context.Context, n port.Notification) error {
	subject := fmt.Sprintf("[%s] %s", n.Priority, n.Title)
	textBody := fmt.Sprintf("%s\n\nType: %s\nPriority: %s", n.Message, n.Type, n.Priority)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.fromAddress,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
