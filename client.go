package sports

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

var (
	// ErrTemporalNotConfigured is returned when no Temporal host is set; callers
	// fall back to running the aggregation in-process.
	ErrTemporalNotConfigured = errors.New("TEMPORAL_HOST is not set")
	ErrTemporalAPIKeyMissing = errors.New("TEMPORAL_API_KEY is required for a remote Temporal host")
)

var localTemporalHosts = map[string]bool{
	"localhost:7233":            true,
	"127.0.0.1:7233":            true,
	"host.docker.internal:7233": true,
}

// IsLocalTemporalHost reports whether host is a local Temporal dev server.
func IsLocalTemporalHost(host string) bool {
	return localTemporalHosts[host]
}

// TemporalUIBaseURL is where the web UI for cfg's Temporal host lives.
func TemporalUIBaseURL(cfg Config) string {
	if IsLocalTemporalHost(cfg.TemporalHost) {
		return "http://localhost:8233"
	}
	return "https://cloud.temporal.io"
}

// GetClientOptions builds Temporal client options from cfg. Local dev servers
// are dialed in plaintext; any other host needs an API key and TLS.
func GetClientOptions(cfg Config, logger *slog.Logger) (client.Options, error) {
	if cfg.TemporalHost == "" {
		return client.Options{}, ErrTemporalNotConfigured
	}
	namespace := cfg.TemporalNamespace
	if namespace == "" {
		namespace = "default"
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: namespace,
		Logger:    tlog.NewStructuredLogger(logger),
		ConnectionOptions: client.ConnectionOptions{
			DialOptions: []grpc.DialOption{
				grpc.WithUnaryInterceptor(namespaceInterceptor(namespace)),
			},
		},
	}

	if IsLocalTemporalHost(cfg.TemporalHost) {
		return opts, nil
	}
	if cfg.TemporalAPIKey == "" {
		return client.Options{}, ErrTemporalAPIKeyMissing
	}
	opts.ConnectionOptions.TLS = &tls.Config{}
	opts.Credentials = client.NewAPIKeyStaticCredentials(cfg.TemporalAPIKey)
	return opts, nil
}

// namespaceInterceptor stamps the temporal-namespace header that Temporal
// Cloud routes API-key requests by.
func namespaceInterceptor(namespace string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "temporal-namespace", namespace)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
