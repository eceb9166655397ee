package aws

import (
	"context"
	"log"
	"os"

	"rms/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient() *ses.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := ses.NewFromConfig(cfg)
	return svc
}

func SESSendMessage(from *string, destination *types.Destination, message *types.Message) {
	c := GetSESClient()
	input := &ses.SendEmailInput{
		Destination: destination,
		Source:      from,
		Message:     message,
	}
	out, err := c.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
}

// SESSendMail adapts a queued mail payload for SES delivery. Deployed
// environments send through SES; local delivery goes over SMTP instead.
func SESSendMail(in *lib.SendMailInput) {
	from := in.From
	if from == "" {
		from = os.Getenv("MAIL_FROM_ADDRESS")
	}
	destination := &types.Destination{
		ToAddresses:  in.To,
		CcAddresses:  in.Cc,
		BccAddresses: in.Bcc,
	}
	content := &types.Content{Data: aws.String(in.Body)}
	body := &types.Body{Text: content}
	if in.Html {
		body = &types.Body{Html: content}
	}
	message := &types.Message{
		Subject: &types.Content{Data: aws.String(in.Subject)},
		Body:    body,
	}
	SESSendMessage(aws.String(from), destination, message)
}
