// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/branchalign/internal/align"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateAligner creates the aligner for the given CPU name.
func CreateAligner(logger *log.Logger, cpu string) *align.Aligner {
	aligner := align.New(logger, cpu)
	if !aligner.Supported() {
		logger.Warn("CPU has no alignment sensitive instructions",
			log.String("cpu", cpu),
			log.String("supported", align.SupportedCPU))
	}
	return aligner
}
