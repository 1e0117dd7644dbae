// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/article-console/internal/console"
	"github.com/pdiddy/article-console/internal/persist"
	"github.com/pdiddy/article-console/internal/progress"
	"github.com/pdiddy/article-console/internal/secrets"
	"github.com/pdiddy/article-console/pkg/types"
)

// setDefaults registers every config key so environment overrides resolve
// even when no config file exists.
func setDefaults(v *viper.Viper) {
	v.SetDefault("agent.endpoint", "")
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.article_agent_id", console.DefaultArticleAgentID)
	v.SetDefault("agent.image_agent_id", console.DefaultImageAgentID)
	v.SetDefault("agent.timeout", "0s")

	v.SetDefault("docstore.endpoint", "")
	v.SetDefault("docstore.api_key", "")
	v.SetDefault("docstore.knowledge_base_id", console.DefaultKnowledgeBaseID)
	v.SetDefault("docstore.timeout", "60s")

	v.SetDefault("storage.backend", string(types.StorageSQLite))
	v.SetDefault("storage.path", persist.DefaultDBPath)
	v.SetDefault("storage.key", persist.DefaultKey)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.bucket", "article-console")
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.use_ssl", true)

	v.SetDefault("progress.evaluate_after", progress.DefaultEvaluateAfter.String())
	v.SetDefault("progress.improve_after", progress.DefaultImproveAfter.String())

	v.SetDefault("log.level", "warn")
}

// loadConfig resolves the console configuration. Secrets fill API keys and
// S3 credentials that config and environment leave empty.
func loadConfig(v *viper.Viper, s secrets.Store) types.ConsoleConfig {
	cfg := types.ConsoleConfig{
		Agent: types.AgentConfig{
			Endpoint:       v.GetString("agent.endpoint"),
			APIKey:         s.Get(secrets.AgentAPIKey, v.GetString("agent.api_key")),
			ArticleAgentID: v.GetString("agent.article_agent_id"),
			ImageAgentID:   v.GetString("agent.image_agent_id"),
			Timeout:        v.GetDuration("agent.timeout"),
		},
		DocumentStore: types.DocumentStoreConfig{
			Endpoint:        v.GetString("docstore.endpoint"),
			APIKey:          s.Get(secrets.DocstoreAPIKey, v.GetString("docstore.api_key")),
			KnowledgeBaseID: v.GetString("docstore.knowledge_base_id"),
			Timeout:         v.GetDuration("docstore.timeout"),
		},
		Storage: types.StorageConfig{
			Backend: types.StorageBackend(v.GetString("storage.backend")),
			Path:    v.GetString("storage.path"),
			Key:     v.GetString("storage.key"),
			S3: types.ObjectStoreConfig{
				Endpoint:  v.GetString("storage.s3.endpoint"),
				Region:    v.GetString("storage.s3.region"),
				AccessKey: s.Get(secrets.S3AccessKey, v.GetString("storage.s3.access_key")),
				SecretKey: s.Get(secrets.S3SecretKey, v.GetString("storage.s3.secret_key")),
				Bucket:    v.GetString("storage.s3.bucket"),
				Prefix:    v.GetString("storage.s3.prefix"),
				UseSSL:    v.GetBool("storage.s3.use_ssl"),
			},
		},
		Progress: types.ProgressConfig{
			EvaluateAfter: v.GetDuration("progress.evaluate_after"),
			ImproveAfter:  v.GetDuration("progress.improve_after"),
		},
		Logging: types.LoggingConfig{
			Level: v.GetString("log.level"),
		},
	}
	if v.GetBool("ephemeral") {
		cfg.Storage.Backend = types.StorageMemory
	}
	return cfg
}

func logConfig() types.LoggingConfig {
	return types.LoggingConfig{Level: viper.GetString("log.level")}
}
