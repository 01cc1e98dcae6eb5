// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/usgs-eros/espa-wrappers/metrics"
	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/wrapper"
)

// ProcessRequest is one scene processing request received over NATS
type ProcessRequest struct {
	// Product is the CLI name of the product to produce
	Product string `json:"product"`

	model.Request
}

// ProcessReply reports the result of one processing request
type ProcessReply struct {
	RequestID string         `json:"request_id"`
	Product   string         `json:"product"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Output    []string       `json:"output,omitempty"`
	Facts     map[string]any `json:"facts,omitempty"`
}

func (r *ProcessReply) Bytes() []byte {
	jr, err := json.Marshal(r)
	if err != nil {
		return []byte(fmt.Sprintf(`{"status":"error","error":%q}`, err.Error()))
	}

	return jr
}

// captureLogger collects the tool output relayed by the controller so it
// can be included in the reply
type captureLogger struct {
	base  model.Logger
	lines *[]string
	mu    *sync.Mutex
}

func newCaptureLogger(base model.Logger) *captureLogger {
	return &captureLogger{base: base, lines: &[]string{}, mu: &sync.Mutex{}}
}

func (c *captureLogger) capture(msg string) {
	c.mu.Lock()
	*c.lines = append(*c.lines, msg)
	c.mu.Unlock()
}

func (c *captureLogger) captured() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string{}, *c.lines...)
}

func (c *captureLogger) Debug(msg string, args ...any) { c.base.Debug(msg, args...) }

func (c *captureLogger) Info(msg string, args ...any) {
	c.capture(msg)
	c.base.Info(msg, args...)
}

func (c *captureLogger) Warn(msg string, args ...any) {
	c.capture(msg)
	c.base.Warn(msg, args...)
}

func (c *captureLogger) Error(msg string, args ...any) {
	c.capture(msg)
	c.base.Error(msg, args...)
}

func (c *captureLogger) With(args ...any) model.Logger {
	return &captureLogger{base: c.base.With(args...), lines: c.lines, mu: c.mu}
}

// handleRequest serves one request, it always produces a reply even for
// malformed payloads so callers are never left waiting
func (a *Agent) handleRequest(ctx context.Context, data []byte) *ProcessReply {
	reply := &ProcessReply{RequestID: ksuid.New().String(), Status: "error"}

	req := &ProcessRequest{}
	err := json.Unmarshal(data, req)
	if err != nil {
		reply.Error = fmt.Sprintf("invalid request: %v", err)
		metrics.AgentRequestErrors.WithLabelValues("unknown").Inc()
		return reply
	}

	reply.Product = req.Product

	log := a.log.With("request_id", reply.RequestID, "product", req.Product)
	log.Info("Processing request", "xml", req.XMLFile)

	spec, err := wrapper.Product(req.Product)
	if err != nil {
		reply.Error = err.Error()
		metrics.AgentRequestErrors.WithLabelValues("unknown").Inc()
		return reply
	}

	timer := prometheus.NewTimer(metrics.AgentRequestTime.WithLabelValues(spec.Name))
	defer timer.ObserveDuration()

	capture := newCaptureLogger(a.log)

	opts := []wrapper.Option{
		wrapper.WithLogger(a.log),
		wrapper.WithOutputLogger(capture),
	}
	if a.cfg.BinDir != "" {
		opts = append(opts, wrapper.WithBinDir(a.cfg.BinDir))
	}
	if a.runner != nil {
		opts = append(opts, wrapper.WithRunner(a.runner))
	}

	controller, err := wrapper.New(spec, opts...)
	if err != nil {
		reply.Error = err.Error()
		metrics.AgentRequestErrors.WithLabelValues(spec.Name).Inc()
		return reply
	}

	err = controller.Run(ctx, req.Request)
	reply.Output = capture.captured()
	reply.Facts = a.workerFacts(ctx)

	if err != nil {
		log.Error("Processing failed", "error", err)
		reply.Error = err.Error()
		metrics.AgentRequestErrors.WithLabelValues(spec.Name).Inc()
		return reply
	}

	log.Info("Processing completed")
	reply.Status = "ok"

	return reply
}
