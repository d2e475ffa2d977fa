package utils

import "go.uber.org/zap"

// NewLogger returns a production logger, or a development one outside production.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
