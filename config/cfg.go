package config

import "time"

type AppConfig struct {
	Env            string           `json:"env"`
	Queue          QueueConfig      `json:"queue"`
	Worker         WorkerConfig     `json:"worker"`
	Enrichment     EnrichmentConfig `json:"enrichment"`
	LLM            LLMConfig        `json:"llm"`
	RequestsQueue  string           `json:"requests_queue"`
	S3Bucket       string           `json:"s3_bucket"`
	MaxUploadBytes int64            `json:"max_upload_bytes"`
}

type QueueConfig struct {
	QueueName         string `json:"queue_name"`
	PollingWaitTime   int64  `json:"polling_wait_time"`
	VisibilityTimeout int64  `json:"visibility_timeout"`
}

type WorkerConfig struct {
	Count                     int           `json:"count"`
	MinimumGapBetweenRequests time.Duration `json:"minimum_gap_between_requests"`
}

// EnrichmentConfig holds the tunables of the reference enrichment pipeline.
// ReferenceDelay paces outbound registry traffic between consecutive
// references; it is not needed for correctness and tests run with zero.
type EnrichmentConfig struct {
	ReferenceDelay  time.Duration `json:"reference_delay"`
	RegistryTimeout time.Duration `json:"registry_timeout"`
	ProbeTimeout    time.Duration `json:"probe_timeout"`
}

type LLMConfig struct {
	Model       string `json:"model"`
	MaxInputLen int    `json:"max_input_len"`
}
