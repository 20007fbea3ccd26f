// Package config loads petje.af client settings from a YAML file, a .env
// file and PETJEAF_* environment variables using Viper.
//
// # Usage
//
//	var cfg client.Config
//	err := config.Load(&cfg, config.WithConfigFile("petjeaf.yml"))
//
// Environment variables override file values. The PETJEAF_ prefix is
// stripped and the rest maps onto nested keys, so PETJEAF_ACCESS_TOKEN
// sets access_token and PETJEAF_TLS_CA_FILE sets tls.ca_file.
package config
