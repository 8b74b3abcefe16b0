// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package otlplogsink

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// TransportConfig selects how an OTLP log exporter reaches its
// collector, mirroring the gRPC/HTTP choice the teacher exposes for its
// own OTLP export (internal/config/config.go's Exports.OTLP.GRPC/HTTP).
type TransportConfig struct {
	Endpoint string
	Insecure bool
	Timeout  time.Duration

	// ServiceName and ServiceAttributes tag every exported record's
	// resource, the way the teacher's agent tags every signal with
	// Agent.ServiceName (internal/config/config.go's Agent.ServiceName).
	ServiceName       string
	ServiceAttributes map[string]string
}

func (cfg TransportConfig) resource(ctx context.Context) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	for k, v := range cfg.ServiceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

// NewGRPCProvider builds a batching *sdklog.LoggerProvider that ships
// records to an OTLP/gRPC log collector.
func NewGRPCProvider(ctx context.Context, cfg TransportConfig) (*sdklog.LoggerProvider, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(cfg.Timeout))
	}

	var creds credentials.TransportCredentials
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	} else {
		creds = credentials.NewTLS(nil)
	}
	opts = append(opts, otlploggrpc.WithDialOption(grpc.WithTransportCredentials(creds)))

	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlplogsink: grpc exporter: %w", err)
	}
	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, fmt.Errorf("otlplogsink: resource: %w", err)
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
		sdklog.WithResource(res),
	), nil
}

// NewHTTPProvider builds a batching *sdklog.LoggerProvider that ships
// records to an OTLP/HTTP log collector.
func NewHTTPProvider(ctx context.Context, cfg TransportConfig) (*sdklog.LoggerProvider, error) {
	opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlploghttp.WithTimeout(cfg.Timeout))
	}

	exp, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlplogsink: http exporter: %w", err)
	}
	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, fmt.Errorf("otlplogsink: resource: %w", err)
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
		sdklog.WithResource(res),
	), nil
}
