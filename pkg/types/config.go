package types

import "time"

// AgentConfig holds settings for the generation agent endpoint.
type AgentConfig struct {
	// Endpoint is the URL that accepts {"message", "agent_id"} requests.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates requests to the agent endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ArticleAgentID identifies the text pipeline agent (write, evaluate, improve).
	ArticleAgentID string `json:"article_agent_id" yaml:"article_agent_id"`

	// ImageAgentID identifies the featured-image agent.
	ImageAgentID string `json:"image_agent_id" yaml:"image_agent_id"`

	// Timeout bounds a single agent round trip. Zero means no client-side
	// timeout; a hung call then lasts as long as the transport allows.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DocumentStoreConfig holds settings for the knowledge-base document store.
type DocumentStoreConfig struct {
	// Endpoint is the base URL of the document store API.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates requests to the document store.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// KnowledgeBaseID is the fixed knowledge base the agents read from.
	KnowledgeBaseID string `json:"knowledge_base_id" yaml:"knowledge_base_id"`

	// Timeout bounds a single document store request (zero means none).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StorageBackend selects where the article collection is persisted.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageS3     StorageBackend = "s3"
	StorageMemory StorageBackend = "memory"
)

// ObjectStoreConfig holds settings for the S3-compatible storage backend.
type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Region    string `json:"region" yaml:"region"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl"`
}

// StorageConfig holds settings for durable article storage.
type StorageConfig struct {
	// Backend selects sqlite (default), s3, or memory.
	Backend StorageBackend `json:"backend" yaml:"backend"`

	// Path is the SQLite database file for the sqlite backend.
	Path string `json:"path" yaml:"path"`

	// Key is the fixed slot key holding the serialized collection.
	Key string `json:"key" yaml:"key"`

	// S3 configures the s3 backend.
	S3 ObjectStoreConfig `json:"s3" yaml:"s3"`
}

// ProgressConfig holds the cosmetic stage schedule shown while generating.
type ProgressConfig struct {
	// EvaluateAfter is the delay before the stage moves from write to evaluate.
	EvaluateAfter time.Duration `json:"evaluate_after" yaml:"evaluate_after"`

	// ImproveAfter is the delay, measured from the start, before the stage
	// moves to improve.
	ImproveAfter time.Duration `json:"improve_after" yaml:"improve_after"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// ConsoleConfig groups every setting the console needs.
type ConsoleConfig struct {
	Agent         AgentConfig         `json:"agent" yaml:"agent"`
	DocumentStore DocumentStoreConfig `json:"docstore" yaml:"docstore"`
	Storage       StorageConfig       `json:"storage" yaml:"storage"`
	Progress      ProgressConfig      `json:"progress" yaml:"progress"`
	Logging       LoggingConfig       `json:"log" yaml:"log"`
}
