package dispatcher

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sqs"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/bibliography"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/pdftext"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/report"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/store"
)

var (
	lastRequestTime   time.Time
	lastRequestTimeMu sync.Mutex
)

// Deps are the services a worker drives for each queued document.
type Deps struct {
	S3        *s3.S3
	Extractor bibliography.Extractor
	Pipeline  *enrich.Pipeline
	Store     *store.Store // nil disables persistence
	MinGap    time.Duration
}

func Worker(id int, messageQueue <-chan *sqs.Message, svc *sqs.SQS, sqsURL, s3Bucket string, deps Deps) {
	log.Printf("Starting worker %d...\n", id)

	for {
		message := <-messageQueue
		processMessage(id, message, svc, sqsURL, s3Bucket, deps)
	}
}

func downloadFileFromS3(s3Svc *s3.S3, bucket, path string) ([]byte, error) {
	output, err := s3Svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Println("Error closing S3 response body:", err)
		}
	}(output.Body)

	return io.ReadAll(output.Body)
}

func processMessage(id int, message *sqs.Message, svc *sqs.SQS, sqsURL, s3Bucket string, deps Deps) {
	var work Work
	if err := json.Unmarshal([]byte(*message.Body), &work); err != nil {
		log.Println("Error decoding JSON message:", err)
		return
	}
	if !work.IsValid() {
		log.Printf("Worker %d dropping invalid message: %+v\n", id, work)
		deleteMessage(svc, sqsURL, message)
		return
	}

	log.Printf("Worker %d received message. Path: %s. Operation: %s\n", id, work.Path, work.Operation)

	lastRequestTimeMu.Lock()
	timeSinceLastRequest := time.Since(lastRequestTime)
	lastRequestTimeMu.Unlock()

	if timeSinceLastRequest < deps.MinGap {
		sleepTime := deps.MinGap - timeSinceLastRequest
		log.Printf("Worker %d sleeping for %v to meet the minimum gap between requests\n", id, sleepTime)
		time.Sleep(sleepTime)
	}

	fileContent, err := downloadFileFromS3(deps.S3, s3Bucket, work.Path)
	if err != nil {
		log.Println("Error downloading file from S3:", err)
		log.Printf("Bucket: %s, Key: %s\n", s3Bucket, work.Path)
		requeueMessage(svc, sqsURL, message)
		return
	}

	lastRequestTimeMu.Lock()
	lastRequestTime = time.Now()
	lastRequestTimeMu.Unlock()

	if err := enrichDocument(id, work.Path, fileContent, deps); err != nil {
		log.Printf("Worker %d failed to process %s: %v\n", id, work.Path, err)
		requeueMessage(svc, sqsURL, message)
		return
	}

	deleteMessage(svc, sqsURL, message)
}

// enrichDocument runs the full pipeline for one document: text extraction,
// bibliography slicing, LLM record extraction, per-reference enrichment and
// persistence of the resulting report.
func enrichDocument(id int, path string, fileContent []byte, deps Deps) error {
	ctx := context.Background()
	start := time.Now()

	text, err := pdftext.ExtractText(fileContent)
	if err != nil {
		return err
	}

	section := bibliography.SectionFromText(text)
	refs, err := deps.Extractor.Extract(ctx, section)
	if err != nil {
		return err
	}
	log.Printf("Worker %d extracted %d references from %s\n", id, len(refs), path)

	enriched := deps.Pipeline.Process(ctx, refs)
	stats := report.ComputeStatistics(enriched)

	if deps.Store == nil {
		log.Printf("Worker %d finished %s (no store configured): %d/%d with identifiers\n",
			id, path, stats.Identifiers.Total, stats.Total)
		return nil
	}

	slug, err := deps.Store.SaveReport(path, time.Since(start).Milliseconds(), stats, enriched)
	if err != nil {
		return err
	}
	log.Printf("Worker %d saved report %s for %s\n", id, slug, path)
	return nil
}

func requeueMessage(svc *sqs.SQS, sqsURL string, message *sqs.Message) {
	_, err := svc.ChangeMessageVisibility(&sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(sqsURL),
		ReceiptHandle:     message.ReceiptHandle,
		VisibilityTimeout: aws.Int64(30),
	})
	if err != nil {
		log.Println("Error putting message back to the queue:", err)
	}
}

func deleteMessage(svc *sqs.SQS, sqsURL string, message *sqs.Message) {
	_, err := svc.DeleteMessage(&sqs.DeleteMessageInput{
		QueueUrl:      aws.String(sqsURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		log.Println("Error deleting message from the queue:", err)
	}
}
