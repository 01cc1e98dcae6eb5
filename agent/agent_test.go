// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/model/modelmocks"
)

func TestAgent(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Agent")
}

var _ = Describe("Config", func() {
	It("Should require a connection target", func() {
		cfg := &Config{}
		Expect(cfg.Validate()).To(MatchError("a nats context or server list is required"))

		cfg = &Config{NatsContext: "espa"}
		Expect(cfg.Validate()).To(Succeed())

		cfg = &Config{Servers: "nats://localhost:4222"}
		Expect(cfg.Validate()).To(Succeed())
	})

	It("Should default the subject and queue", func() {
		cfg := &Config{NatsContext: "espa"}
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Subject).To(Equal("espa.process"))
		Expect(cfg.Queue).To(Equal("espa-wrappers"))
	})
})

var _ = Describe("Agent", func() {
	var (
		ctl    *gomock.Controller
		log    *modelmocks.MockLogger
		runner *modelmocks.MockCommandRunner
		agent  *Agent
		xml    string
	)

	BeforeEach(func() {
		ctl = gomock.NewController(GinkgoT())
		log = modelmocks.NewQuietLogger(ctl)
		runner = modelmocks.NewMockCommandRunner(ctl)

		var err error
		agent, err = New(&Config{NatsContext: "espa"}, WithLogger(log), WithRunner(runner))
		Expect(err).ToNot(HaveOccurred())

		xml = filepath.Join(GinkgoT().TempDir(), "LT50290302011300-SC20190001.xml")
		Expect(os.WriteFile(xml, []byte("<espa_metadata/>"), 0644)).To(Succeed())
	})

	AfterEach(func() {
		ctl.Finish()
	})

	Describe("handleRequest", func() {
		It("Should reply to malformed payloads", func() {
			reply := agent.handleRequest(context.Background(), []byte("not json"))

			Expect(reply.Status).To(Equal("error"))
			Expect(reply.Error).To(ContainSubstring("invalid request"))
			Expect(reply.RequestID).ToNot(BeEmpty())
		})

		It("Should reject unknown products", func() {
			reply := agent.handleRequest(context.Background(), []byte(`{"product":"thermal","xml":"/tmp/x.xml"}`))

			Expect(reply.Status).To(Equal("error"))
			Expect(reply.Error).To(ContainSubstring("unknown product"))
		})

		It("Should run a valid request and capture the tool output", func() {
			runner.EXPECT().RunWithOptions(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, cmd *model.Command, _ model.ExecOptions) ([]byte, error) {
					Expect(cmd.Program()).To(Equal("spectral_indices"))
					return []byte("band 4 read\nband 5 read\n"), nil
				})

			reply := agent.handleRequest(context.Background(), []byte(`{"product":"spectral-indices","xml":"`+xml+`","flags":{"ndvi":true}}`))

			Expect(reply.Error).To(BeEmpty())
			Expect(reply.Status).To(Equal("ok"))
			Expect(reply.Product).To(Equal("spectral-indices"))
			Expect(reply.Output).To(ContainElement("band 4 read"))
			Expect(reply.Output).To(ContainElement("band 5 read"))
			Expect(reply.Facts).To(HaveKey("tools"))
		})

		It("Should report failed runs", func() {
			runner.EXPECT().RunWithOptions(gomock.Any(), gomock.Any(), gomock.Any()).Return(
				[]byte("error: bad band count\n"), &model.ExecutionError{
					Outcome:  model.OutcomeNonZeroExit,
					ExitCode: 2,
					Command:  "spectral_indices",
				})

			reply := agent.handleRequest(context.Background(), []byte(`{"product":"spectral-indices","xml":"`+xml+`","flags":{"ndvi":true}}`))

			Expect(reply.Status).To(Equal("error"))
			Expect(reply.Error).To(ContainSubstring("returned error code [2]"))
			Expect(reply.Output).To(ContainElement("error: bad band count"))
		})

		It("Should report precondition failures without spawning", func() {
			reply := agent.handleRequest(context.Background(), []byte(`{"product":"spectral-indices","xml":"`+xml+`"}`))

			Expect(reply.Status).To(Equal("error"))
			Expect(reply.Error).To(ContainSubstring("no output product specified"))
		})
	})

	Describe("ProcessReply", func() {
		It("Should render to JSON", func() {
			reply := &ProcessReply{RequestID: "x", Product: "cfmask", Status: "ok"}
			Expect(string(reply.Bytes())).To(MatchJSON(`{"request_id":"x","product":"cfmask","status":"ok"}`))
		})
	})
})
