package common

import (
	"encoding/json"
	"log"
	"os"

	"rms/src/lib"
	awslib "rms/src/lib/aws"
	"rms/src/types"

	"github.com/tidwall/gjson"
)

func parseMailPayload(spayload string) (*lib.SendMailInput, bool) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return nil, false
	}
	from := gjson.Get(spayload, "from").String()
	fromName := gjson.Get(spayload, "from-name").String()
	subject := gjson.Get(spayload, "subject").String()
	log.Printf("from [%s] with subject: %s\n", from, subject)

	toArr := gjson.Get(spayload, "to").Array()
	to := make([]string, 0)
	for _, item := range toArr {
		to = append(to, item.String())
	}
	ccArr := gjson.Get(spayload, "cc").Array()
	cc := make([]string, 0)
	for _, item := range ccArr {
		cc = append(cc, item.String())
	}
	bccArr := gjson.Get(spayload, "bcc").Array()
	bcc := make([]string, 0)
	for _, item := range bccArr {
		bcc = append(bcc, item.String())
	}
	replyTo := gjson.Get(spayload, "reply-to").String()

	var body types.JSONB
	if err := json.Unmarshal([]byte(spayload), &body); err != nil {
		log.Printf("error deserializing json: %s\n", err.Error())
		return nil, false
	}
	html, _ := body["html"].(bool)
	return &lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       to,
		Cc:       cc,
		Bcc:      bcc,
		ReplyTo:  replyTo,
		Subject:  subject,
		Body:     gjson.Get(spayload, "body").String(),
		Html:     html,
	}, true
}

// KafkaEmailsToSendConsumer delivers queued emails in local environments
// where the broker stands in for SQS.
func KafkaEmailsToSendConsumer(spayload string) {
	input, ok := parseMailPayload(spayload)
	if !ok {
		return
	}
	go func() {
		if err := lib.SendMail(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", input.To)
	}()
}

// EmailsToSendConsumer drains the deployed email queue and delivers
// through SES.
func EmailsToSendConsumer() {
	c := awslib.NewSQSConsumer(os.Getenv("EMAIL_QUEUE"), func(spayload string) {
		input, ok := parseMailPayload(spayload)
		if !ok {
			return
		}
		go awslib.SESSendMail(input)
	})
	c.Listen()
}
