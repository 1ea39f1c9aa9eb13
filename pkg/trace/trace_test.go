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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return recorder
}

func TestConf_SetDefaults(t *testing.T) {
	var c Conf
	c.SetDefaults()
	assert.Equal(t, "arcade-console", c.ServiceName)
	assert.Equal(t, "http", c.Protocol)
	assert.Equal(t, "localhost:4318", c.Endpoint)
	assert.Equal(t, 1.0, c.SampleRatio)

	g := Conf{Protocol: "grpc"}
	g.SetDefaults()
	assert.Equal(t, "localhost:4317", g.Endpoint)
}

func TestInitTracerProvider_Disabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, cleanup, err := InitTracerProvider(context.Background(), Conf{})
	require.NoError(t, err)
	defer cleanup()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
}

func TestInitTracerProvider_UnknownProtocol(t *testing.T) {
	_, _, err := InitTracerProvider(context.Background(), Conf{Enabled: true, Protocol: "zipkin"})
	assert.Error(t, err)
}

func TestClientRequest(t *testing.T) {
	recorder := withRecorder(t)

	code, err := ClientRequest(context.Background(), "GET", "http://api/worker/model", func(ctx context.Context) (int, error) {
		assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
		return 200, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, code)

	_, err = ClientRequest(context.Background(), "DELETE", "http://api/worker/model/1", func(ctx context.Context) (int, error) {
		return 0, errors.New("connection reset")
	})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "http.request GET", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Len(t, spans[1].Events(), 1)
}

func TestRecordError_Nil(t *testing.T) {
	recorder := withRecorder(t)
	_, span := StartSpan(context.Background(), "noop")
	RecordError(span, nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}
