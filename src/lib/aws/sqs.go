package aws

import (
	"context"
	"log"
	"time"

	"rms/src/lib"
	"rms/src/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSConsumer drains one of the two queues this service owns: the email
// queue and the reservation completion queue. Queue names carry the
// environment suffix so each deployment reads its own.
type SQSConsumer struct {
	Name    string
	handler types.Handler
}

func NewSQSConsumer(queue string, handler types.Handler) *SQSConsumer {
	return &SQSConsumer{
		Name:    lib.WithSuffix(queue),
		handler: handler,
	}
}

func (s *SQSConsumer) Listen() {
	go func() {
		client := lib.AWSGetSQSClient()
		qurl, err := client.GetQueueUrl(context.TODO(), &sqs.GetQueueUrlInput{
			QueueName: aws.String(s.Name),
		})
		if err != nil {
			log.Printf("[SQS] %s: failed to retrieve queue URL: %s\n", s.Name, err.Error())
			return
		}
		log.Printf("[SQS] %s: Listening for messages...", s.Name)
		for {
			output, err := client.ReceiveMessage(context.Background(), &sqs.ReceiveMessageInput{
				QueueUrl:            qurl.QueueUrl,
				WaitTimeSeconds:     20,
				MaxNumberOfMessages: 10,
			})
			if err != nil {
				log.Printf("[SQS] %s: error receiving messages: %s\n", s.Name, err.Error())
				time.Sleep(10 * time.Second)
				continue
			}
			for _, m := range output.Messages {
				body := *m.Body
				go s.handler(body)
				go lib.SQSDeleteMessage(client, qurl.QueueUrl, &m)
			}
		}
	}()
}
