package mailer

import (
	"encoding/json"
	"fmt"
	"os"

	"rms/src/lib"
	"rms/src/types"
)

// NewMailerMessage queues an email for asynchronous delivery. Local
// environments mirror the message onto the broker so the in-process
// consumer can deliver it without AWS credentials.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"cc":        input.Cc,
		"bcc":       input.Bcc,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if apiEnv == string(types.Local) {
		if err := lib.KafkaProduceMessage("emails", lib.WithSuffix(emailQueue), body); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	if err := lib.SQSProduceMessage(lib.WithSuffix(emailQueue), string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
