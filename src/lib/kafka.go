package lib

import (
	"context"
	"fmt"
	"log"
	"os"

	"rms/src/types"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// WithSuffix namespaces queue and topic names per environment so staging
// and production traffic never share a channel.
func WithSuffix(name string) string {
	suffix := os.Getenv("RESOURCE_SUFFIX")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, suffix)
}

func KafkaProduceMessage(clientId string, topic string, value []byte) error {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("[kafka] Error creating producer: %s\n", err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("[kafka] Error producing to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

// KafkaSubscribe starts a background poll loop and hands every message body
// to the handler. The loop stops on the first broker error.
func KafkaSubscribe(groupId string, topics []string, handler types.Handler) error {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	})
	if err != nil {
		log.Printf("[kafka] Error creating consumer: %s\n", err.Error())
		return err
	}
	if err := consumer.SubscribeTopics(topics, nil); err != nil {
		log.Printf("[kafka] Error subscribing to %v: %s\n", topics, err.Error())
		return err
	}
	go func() {
		log.Printf("[kafka] %s: waiting for messages...\n", groupId)
		run := true
		for run {
			ev := consumer.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				handler(string(e.Value))
			case kafka.Error:
				log.Printf("[kafka] %s: %v\n", groupId, e)
				run = false
			}
		}
		consumer.Close()
	}()
	return nil
}

func KafkaCreateTopics(topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		log.Printf("[kafka] Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 10,
		})
	}
	result, err := a.CreateTopics(context.Background(), topicsDef)
	if err != nil {
		log.Printf("[kafka] Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}
