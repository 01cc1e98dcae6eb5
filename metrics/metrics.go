// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/usgs-eros/espa-wrappers/model"
)

var (
	NameSpace = "espa"
	Subsystem = "wrapper"

	// RunTime is a summary of the time taken by one wrapper invocation
	// including the underlying tool
	RunTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "run_duration_seconds"),
		Help: "Time taken to run a product wrapper",
	}, []string{"product"})

	// RunsTotal counts wrapper invocations by outcome classification
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "runs_total_count"),
		Help: "How many wrapper runs finished in a certain outcome",
	}, []string{"product", "outcome"})

	// PreconditionFailures counts runs rejected before the tool was spawned
	PreconditionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "precondition_failure_count"),
		Help: "How many runs were rejected before spawning the tool",
	}, []string{"product", "reason"})

	// AgentRequestTime is a summary of the time taken to serve an agent request
	AgentRequestTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "agent_request_duration_seconds"),
		Help: "Time taken to serve a processing request",
	}, []string{"product"})

	// AgentRequestErrors counts agent requests that could not be served
	AgentRequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "agent_request_error_count"),
		Help: "How many processing requests failed",
	}, []string{"product"})
)

func RegisterMetrics() {
	prometheus.MustRegister(RunTime)
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(PreconditionFailures)
	prometheus.MustRegister(AgentRequestTime)
	prometheus.MustRegister(AgentRequestErrors)
}

// WriteTextfile saves the current metrics in the node exporter textfile
// collector format, used by one shot CLI runs that have no scrape endpoint
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func ListenAndServe(port int, log model.Logger) {
	if port <= 0 {
		return
	}

	go func() {
		log.Info("Starting monitoring server", "port", port)
		http.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
		if err != nil {
			log.Error("HTTP Listener failed", "error", err)
		}
	}()
}
