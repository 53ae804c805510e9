// Package dispatcher polls the requests queue and hands documents to the
// enrichment workers.
package dispatcher

import (
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/config"
)

func Dispatcher(svc *sqs.SQS, sqsURL string, queueCfg config.QueueConfig, messageQueue chan<- *sqs.Message) {
	log.Println("Starting dispatcher...")
	for {
		result, err := svc.ReceiveMessage(&sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(sqsURL),
			MaxNumberOfMessages: aws.Int64(10),
			VisibilityTimeout:   aws.Int64(queueCfg.VisibilityTimeout),
			WaitTimeSeconds:     aws.Int64(queueCfg.PollingWaitTime),
		})
		if err != nil {
			log.Println("Error receiving message:", err)
			continue
		}

		for _, message := range result.Messages {
			messageQueue <- message
		}
	}
}
