// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmdrunner

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/model/modelmocks"
)

func TestCommandRunner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal/CmdRunner")
}

var _ = Describe("CommandRunner", func() {
	var (
		mockctl *gomock.Controller
		logger  *modelmocks.MockLogger
		runner  *CommandRunner
		err     error
	)

	BeforeEach(func() {
		mockctl = gomock.NewController(GinkgoT())
		logger = modelmocks.NewQuietLogger(mockctl)

		runner, err = NewCommandRunner(logger)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockctl.Finish()
	})

	Describe("Run", func() {
		It("Should require a command", func() {
			out, err := runner.Run(context.Background(), nil)
			Expect(err).To(MatchError("command not specified"))
			Expect(out).To(BeNil())
		})

		It("Should classify a zero exit as success", func() {
			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "echo processing complete")

			out, err := runner.Run(context.Background(), cmd)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal("processing complete\n"))
		})

		It("Should merge stdout and stderr", func() {
			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "echo out; echo err 1>&2")

			out, err := runner.Run(context.Background(), cmd)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal("out\nerr\n"))
		})

		It("Should classify a nonzero exit with its code and output", func() {
			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "echo error: bad band count 1>&2; exit 2")

			out, err := runner.Run(context.Background(), cmd)
			Expect(err).To(HaveOccurred())
			Expect(string(out)).To(Equal("error: bad band count\n"))

			var ee *model.ExecutionError
			Expect(errors.As(err, &ee)).To(BeTrue())
			Expect(ee.Outcome).To(Equal(model.OutcomeNonZeroExit))
			Expect(ee.ExitCode).To(Equal(2))
			Expect(ee.Output).To(Equal("error: bad band count\n"))
		})

		It("Should classify a signal termination distinctly", func() {
			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "kill -TERM $$")

			_, err = runner.Run(context.Background(), cmd)
			Expect(err).To(HaveOccurred())

			var ee *model.ExecutionError
			Expect(errors.As(err, &ee)).To(BeTrue())
			Expect(ee.Outcome).To(Equal(model.OutcomeSignalTerminated))
			Expect(ee.Signal).To(Equal("terminated"))
			Expect(ee.ExitCode).To(Equal(-1))
		})

		It("Should surface start failures as plain errors", func() {
			cmd, err := model.NewCommand("/nonexistent/espa-tool")
			Expect(err).ToNot(HaveOccurred())

			_, err = runner.Run(context.Background(), cmd)
			Expect(err).To(HaveOccurred())

			var ee *model.ExecutionError
			Expect(errors.As(err, &ee)).To(BeFalse())
		})
	})

	Describe("RunWithOptions", func() {
		It("Should run in the requested directory", func() {
			dir := GinkgoT().TempDir()

			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "pwd")

			out, err := runner.RunWithOptions(context.Background(), cmd, model.ExecOptions{Cwd: dir})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(ContainSubstring(dir))
		})

		It("Should pass extra environment variables", func() {
			cmd, err := model.NewCommand("/bin/sh")
			Expect(err).ToNot(HaveOccurred())
			cmd.AddArgs("-c", "echo $ESPA_SCENE")

			out, err := runner.RunWithOptions(context.Background(), cmd, model.ExecOptions{Environment: []string{"ESPA_SCENE=LC08"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal("LC08\n"))
		})
	})
})
