package ses

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type Config struct {
	Region    string `env:"REGION" envDefault:"us-west-2"`
	Endpoint  string `env:"ENDPOINT"`
	FromEmail string `env:"FROM_EMAIL"`
}

// Message is a single plain/HTML email to one or more recipients.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Client interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// sendEmailAPI is the slice of the SESv2 client this package uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type client struct {
	log  *logger.Logger
	api  sendEmailAPI
	from string
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, fmt.Errorf("missing SES_FROM_EMAIL")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	api := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newWithAPI(log, api, cfg.FromEmail), nil
}

func newWithAPI(log *logger.Logger, api sendEmailAPI, from string) *client {
	return &client{log: log.With("client", "SESClient"), api: api, from: strings.TrimSpace(from)}
}

func (c *client) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("ses: recipient required")
	}
	body := &types.Body{}
	if msg.Text != "" {
		body.Text = utf8(msg.Text)
	}
	if msg.HTML != "" {
		body.Html = utf8(msg.HTML)
	}
	if body.Text == nil && body.Html == nil {
		return "", fmt.Errorf("ses: Text or HTML content required")
	}
	out, err := c.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.from),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8(msg.Subject),
				Body:    body,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	id := aws.ToString(out.MessageId)
	c.log.Debug("SES message accepted", "message_id", id)
	return id, nil
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}
