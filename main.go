package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/config"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/bibliography"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/dispatcher"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/helpers"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/registry"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/server"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/store"
)

var (
	healthStatus bool
	healthMutex  sync.Mutex
)

func main() {
	ctx := context.Background()

	// Load environment variables
	helpers.LoadEnv()
	cfg := loadConfig()
	log.Println("app env: " + cfg.Env)

	// Optional MySQL persistence
	var st *store.Store
	if dbHost := helpers.GetOptionalEnvVariable("DB_HOST", ""); dbHost != "" {
		dbPort := helpers.GetEnvVariable("DB_PORT")
		dbUser := helpers.GetEnvVariable("DB_USERNAME")
		dbPassword := helpers.GetEnvVariable("DB_PASSWORD")
		dbName := helpers.GetEnvVariable("DB_DATABASE")

		db, err := sql.Open("mysql", dbUser+":"+dbPassword+"@tcp("+dbHost+":"+dbPort+")/"+dbName)
		if err != nil {
			log.Fatal("Error opening database:", err)
		}
		st = store.New(db)
		if err = st.Ping(); err != nil {
			log.Fatal("Error pinging database:", err)
		}
		log.Println("Database pinged successfully.")
	} else {
		log.Println("DB_HOST not set, reports will not be persisted.")
	}

	// LLM extraction client
	var extractor bibliography.Extractor = bibliography.Noop{}
	if apiKey := helpers.GetOptionalEnvVariable("GEMINI_API_KEY", ""); apiKey != "" {
		gemini, err := bibliography.NewGeminiExtractor(ctx, apiKey, cfg.LLM.Model, cfg.LLM.MaxInputLen)
		if err != nil {
			log.Fatal("Error creating Gemini client:", err)
		}
		extractor = gemini
	} else {
		log.Println("GEMINI_API_KEY not set, reference extraction disabled.")
	}

	// Registry clients and the enrichment pipeline
	crossref := registry.NewCrossrefClient(
		registry.WithCrossrefTimeouts(cfg.Enrichment.RegistryTimeout, registry.DefaultSearchTimeout, cfg.Enrichment.ProbeTimeout),
	)
	books := registry.NewOpenLibraryClient(
		registry.WithOpenLibraryTimeout(cfg.Enrichment.RegistryTimeout),
	)
	pipeline := enrich.NewPipeline(crossref, books,
		enrich.WithReferenceDelay(cfg.Enrichment.ReferenceDelay),
	)

	// Optional SQS/S3 intake for queued documents
	workFunc := func() {}
	if sqsPrefix := helpers.GetOptionalEnvVariable("SQS_PREFIX", ""); sqsPrefix != "" {
		sqsURL := fmt.Sprintf("%s/%s", sqsPrefix, cfg.RequestsQueue)
		awsSecretKey := helpers.GetEnvVariable("AWS_SECRET_ACCESS_KEY")
		awsAccessKey := helpers.GetEnvVariable("AWS_ACCESS_KEY_ID")
		awsRegion := helpers.GetEnvVariable("AWS_REGION")

		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(awsAccessKey, awsSecretKey, ""),
		})
		if err != nil {
			log.Fatal("Error creating AWS session:", err)
		}

		sqsSvc := sqs.New(sess)
		messageQueue := make(chan *sqs.Message, 10)

		go dispatcher.Dispatcher(sqsSvc, sqsURL, cfg.Queue, messageQueue)

		deps := dispatcher.Deps{
			S3:        s3.New(sess),
			Extractor: extractor,
			Pipeline:  pipeline,
			Store:     st,
			MinGap:    cfg.Worker.MinimumGapBetweenRequests,
		}
		workFunc = func() {
			for i := 1; i <= cfg.Worker.Count; i++ {
				go dispatcher.Worker(i, messageQueue, sqsSvc, sqsURL, cfg.S3Bucket, deps)
			}
		}
	} else {
		log.Println("SQS_PREFIX not set, queued intake disabled.")
	}

	// Periodic registry health checks; workers start on the first healthy
	// probe.
	go func() {
		registry.CheckRegistryHealth(registry.DefaultCrossrefURL, &healthStatus, &healthMutex, workFunc)
		for {
			time.Sleep(1 * time.Minute)
			registry.CheckRegistryHealth(registry.DefaultCrossrefURL, &healthStatus, &healthMutex)
		}
	}()

	r := gin.Default()

	srv := server.New(cfg, extractor, pipeline, st, func() bool {
		healthMutex.Lock()
		defer healthMutex.Unlock()
		return healthStatus
	})
	srv.Routes(r)

	r.Run()
}

func loadConfig() config.AppConfig {
	referenceDelayMS := envInt("REFERENCE_DELAY_MS", 300)
	registryTimeoutMS := envInt("REGISTRY_TIMEOUT_MS", 4000)
	probeTimeoutMS := envInt("PROBE_TIMEOUT_MS", 3000)
	minGapSeconds := envInt("MINIMUM_GAP_BETWEEN_REQUESTS_SECONDS", 1)

	return config.AppConfig{
		Env: helpers.GetOptionalEnvVariable("APP_ENV", "production"),
		Queue: config.QueueConfig{
			QueueName:         helpers.GetOptionalEnvVariable("REQUESTS_QUEUE", "requests"),
			PollingWaitTime:   20,
			VisibilityTimeout: 30,
		},
		Worker: config.WorkerConfig{
			Count:                     envInt("WORKER_COUNT", 1),
			MinimumGapBetweenRequests: time.Duration(minGapSeconds) * time.Second,
		},
		Enrichment: config.EnrichmentConfig{
			ReferenceDelay:  time.Duration(referenceDelayMS) * time.Millisecond,
			RegistryTimeout: time.Duration(registryTimeoutMS) * time.Millisecond,
			ProbeTimeout:    time.Duration(probeTimeoutMS) * time.Millisecond,
		},
		LLM: config.LLMConfig{
			Model:       helpers.GetOptionalEnvVariable("GEMINI_MODEL", ""),
			MaxInputLen: envInt("LLM_MAX_INPUT_LEN", 10000),
		},
		RequestsQueue:  helpers.GetOptionalEnvVariable("REQUESTS_QUEUE", "requests"),
		S3Bucket:       helpers.GetOptionalEnvVariable("AWS_BUCKET", ""),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 20<<20)),
	}
}

func envInt(key string, fallback int) int {
	raw := helpers.GetOptionalEnvVariable(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}
