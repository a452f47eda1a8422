package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

const charset = "UTF-8"

// SESClient sends reservation emails from the club's sender address.
type SESClient struct {
	client *sesv2.Client
	from   string
}

// NewSESClient builds an SESv2 client for region. Without static keys the
// default AWS credential chain (environment, shared profile, instance role) is
// used.
func NewSESClient(accessKeyID, secretAccessKey, region, from string) (*SESClient, error) {
	if strings.TrimSpace(region) == "" {
		return nil, fmt.Errorf("ses region is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("ses sender is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required")
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESClient{client: sesv2.NewFromConfig(awsCfg), from: from}, nil
}

func utf8Content(text string) *types.Content {
	return &types.Content{Data: aws.String(text), Charset: aws.String(charset)}
}

func (c *SESClient) input(recipient string, msg Message) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.from),
		Destination:      &types.Destination{ToAddresses: []string{recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(msg.Subject),
				Body:    &types.Body{Text: utf8Content(msg.Body)},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("kind"), Value: aws.String(msg.tagKind())},
		},
	}
}

// Send delivers msg to recipient. Failures are logged against the reservation
// the message is about.
func (c *SESClient) Send(ctx context.Context, recipient string, msg Message) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("ses client is not initialized")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	logger := log.Ctx(ctx).With().
		Int64("reservation_id", msg.ReservationID).
		Str("kind", msg.tagKind()).
		Logger()

	out, err := c.client.SendEmail(ctx, c.input(recipient, msg))
	if err != nil {
		logger.Error().Err(err).Msg("SES rejected reservation email")
		return fmt.Errorf("send %s email: %w", msg.tagKind(), err)
	}
	logger.Debug().Str("message_id", aws.ToString(out.MessageId)).Msg("Reservation email sent")
	return nil
}
