package pvctl

// BuildEnv renders the full configuration file for a collected Config. The
// local variant skips domain, profile, and certificate concerns; production
// includes everything plus the external database block when one was chosen.
func BuildEnv(cfg Config) *EnvFile {
	ef := NewEnvFile()
	ef.addRaw("# Peerview deployment configuration")
	ef.addRaw("# Generated by pvctl; edit values here and re-run `docker compose up -d`.")
	ef.addRaw("")

	if !cfg.Local() {
		ef.Set("DOMAIN", cfg.Domain)
	}
	ef.Set("GITLAB_URL", cfg.GitLabURL)
	if cfg.GitLabGroup != "" {
		ef.Set("GITLAB_GROUP", cfg.GitLabGroup)
	}

	ef.addRaw("")
	ef.addRaw("# OIDC application registered on the upstream GitLab")
	ef.Set("OIDC_CLIENT_ID", cfg.OIDCClientID)
	ef.Set("OIDC_CLIENT_SECRET", cfg.OIDCClientSecret)

	ef.addRaw("")
	ef.addRaw("# Generated credentials")
	ef.Set("SECRET_KEY", cfg.SecretKey)
	ef.Set("POSTGRES_PASSWORD", cfg.PostgresPassword)
	ef.Set("REDIS_PASSWORD", cfg.RedisPassword)

	if !cfg.Local() {
		ef.addRaw("")
		ef.Set("COMPOSE_PROFILES", cfg.Profile())
	}

	if cfg.ExternalDB {
		ef.addRaw("")
		ef.addRaw("# External database")
		ef.Set("POSTGRES_HOST", cfg.DB.Host)
		ef.Set("POSTGRES_PORT", cfg.DB.Port)
		ef.Set("POSTGRES_USER", cfg.DB.User)
		ef.Set("POSTGRES_DB", cfg.DB.Name)
		ef.Set("POSTGRES_SSLMODE", cfg.DB.SSLMode)
		ef.Set("TZ", cfg.DB.Timezone)
	}

	ef.addRaw("")
	ef.addRaw("# Image versions, managed by `pvctl update`")
	ef.Set("FRONTEND_TAG", cfg.FrontendTag)
	ef.Set("BACKEND_TAG", cfg.BackendTag)

	return ef
}
