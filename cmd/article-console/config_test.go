// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/article-console/internal/secrets"
	"github.com/pdiddy/article-console/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(newTestViper(), secrets.Store{})

	assert.Equal(t, "6998726eafc03b530a027602", cfg.Agent.ArticleAgentID)
	assert.Equal(t, "69987280287fc1efe03969df", cfg.Agent.ImageAgentID)
	assert.Equal(t, "699871fee12ce168202ebc9c", cfg.DocumentStore.KnowledgeBaseID)
	assert.Equal(t, types.StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, "solutionmots_articles", cfg.Storage.Key)
	assert.Equal(t, 8*time.Second, cfg.Progress.EvaluateAfter)
	assert.Equal(t, 16*time.Second, cfg.Progress.ImproveAfter)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigSecretsFillGaps(t *testing.T) {
	v := newTestViper()
	v.Set("docstore.api_key", "from-config")
	s := secrets.Store{
		secrets.AgentAPIKey:    "agent-secret",
		secrets.DocstoreAPIKey: "docstore-secret",
		secrets.S3AccessKey:    "minio",
	}

	cfg := loadConfig(v, s)
	assert.Equal(t, "agent-secret", cfg.Agent.APIKey)
	assert.Equal(t, "from-config", cfg.DocumentStore.APIKey, "explicit config wins")
	assert.Equal(t, "minio", cfg.Storage.S3.AccessKey)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("ARTICLE_CONSOLE_AGENT_ENDPOINT", "https://agents.example.com/invoke")
	t.Setenv("ARTICLE_CONSOLE_PROGRESS_EVALUATE_AFTER", "2s")

	v := newTestViper()
	v.SetEnvPrefix("ARTICLE_CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := loadConfig(v, nil)
	assert.Equal(t, "https://agents.example.com/invoke", cfg.Agent.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.Progress.EvaluateAfter)
}

func TestLoadConfigEphemeral(t *testing.T) {
	v := newTestViper()
	v.Set("ephemeral", true)
	assert.Equal(t, types.StorageMemory, loadConfig(v, nil).Storage.Backend)
}
