package delivery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/fyntrix/otpauth/internal/phone"
	"github.com/sirupsen/logrus"
)

const providerSNS = "sns"

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSGateway publishes SMS messages directly to a phone number.
type SNSGateway struct {
	client   snsPublisher
	smsType  string
	senderID string
	logger   *logrus.Logger
}

func NewSNSGateway(client snsPublisher, smsType, senderID string, logger *logrus.Logger) *SNSGateway {
	if smsType == "" {
		smsType = "Transactional"
	}
	return &SNSGateway{
		client:   client,
		smsType:  smsType,
		senderID: senderID,
		logger:   logger,
	}
}

func (g *SNSGateway) Send(ctx context.Context, destination, message string) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String(g.smsType),
		},
	}
	if g.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(g.senderID),
		}
	}

	out, err := g.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(destination),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return &DeliveryError{Provider: providerSNS, Err: fmt.Errorf("publish: %w", err)}
	}

	g.logger.WithFields(logrus.Fields{
		"phone":      phone.Mask(destination),
		"message_id": aws.ToString(out.MessageId),
	}).Info("SMS published")

	return nil
}
