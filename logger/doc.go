// Package logger provides structured logging for the petje.af client
// using zerolog.
//
// The client logs through Nop unless a logger is supplied, so embedding
// the SDK never writes to stdout by accident.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.New(&cfg, "petjeaf")
//	log.WithComponent("memberships").Info("listed", logger.Fields("count", 3))
package logger
