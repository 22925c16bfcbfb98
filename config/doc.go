// Package config loads service configuration from a YAML file, a .env file
// and the process environment using Viper.
//
// Lookup order, lowest to highest precedence: cmd/<service>/config.yml,
// .env, environment variables, explicit aliases. Environment variables map
// onto nested keys by splitting on underscores (LLM_BACKEND -> llm.backend);
// aliases cover names that do not follow that rule (PORT -> server.port).
//
//	var cfg relay.Config
//	err := config.LoadConfig("medsum-relay", &cfg,
//	    config.WithEnvAliases(map[string]string{"PORT": "server.port"}))
package config
