// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/go-arcade/console"

// GetTracer returns a named tracer from the global provider.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the console tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return GetTracer(instrumentationName).Start(ctx, name, opts...)
}

// AddSpanAttributes sets attributes on span.
func AddSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordError records err and marks the span failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanStatus sets the status of span.
func SetSpanStatus(span trace.Span, code codes.Code, description string) {
	span.SetStatus(code, description)
}

// ClientRequest wraps an outgoing HTTP call in a client span.
func ClientRequest(ctx context.Context, method, url string, fn func(ctx context.Context) (statusCode int, err error)) (int, error) {
	ctx, span := StartSpan(ctx, "http.request "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	AddSpanAttributes(span,
		attribute.String("http.method", method),
		attribute.String("http.url", url),
	)

	statusCode, err := fn(ctx)
	if statusCode > 0 {
		AddSpanAttributes(span, attribute.Int("http.status_code", statusCode))
	}

	switch {
	case err != nil:
		RecordError(span, err)
	case statusCode >= 400:
		SetSpanStatus(span, codes.Error, "")
	default:
		SetSpanStatus(span, codes.Ok, "")
	}
	return statusCode, err
}
