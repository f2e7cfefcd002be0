package server

import (
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
)

// NewTLSConfig loads a certificate and key for wss:// serving
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return NewTLSConfigFromCert(cert), nil
}

// NewTLSConfigFromCert builds the relay TLS settings around cert
func NewTLSConfigFromCert(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"http/1.1"},
	}
}

// GetTLSInfo returns human-readable TLS configuration information
func GetTLSInfo(config *tls.Config) map[string]interface{} {
	return map[string]interface{}{
		"min_version":     tls.VersionName(config.MinVersion),
		"num_certs":       len(config.Certificates),
		"next_protos":     config.NextProtos,
		"session_tickets": !config.SessionTicketsDisabled,
	}
}
