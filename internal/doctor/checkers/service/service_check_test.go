package servicechecker_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/codemate/internal/doctor"
	servicechecker "github.com/smykla-skalski/codemate/internal/doctor/checkers/service"
	"github.com/smykla-skalski/codemate/internal/service"
)

const baseURL = "http://localhost:5000"

var _ = Describe("Service checkers", func() {
	var (
		ctx    context.Context
		client *service.MockClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = service.NewMockClient(gomock.NewController(GinkgoT()))
	})

	unreachable := func(endpoint string) error {
		return &service.TransportError{Endpoint: endpoint, Err: errors.New("connection refused")}
	}

	Describe("HealthChecker", func() {
		var checker *servicechecker.HealthChecker

		BeforeEach(func() {
			checker = servicechecker.NewHealthChecker(client, baseURL)
		})

		It("belongs to the service category", func() {
			Expect(checker.Name()).To(Equal("Backend reachable"))
			Expect(checker.Category()).To(Equal(doctor.CategoryService))
		})

		It("passes with the health message", func() {
			client.EXPECT().Health(gomock.Any()).Return(&service.HealthResponse{Message: "Backend is running"}, nil)

			result := checker.Check(ctx)
			Expect(result.IsPassed()).To(BeTrue())
			Expect(result.Message).To(HavePrefix(baseURL + " responded in"))
			Expect(result.Details).To(ConsistOf("Backend is running"))
		})

		It("fails with a hint when the service is unreachable", func() {
			client.EXPECT().Health(gomock.Any()).Return(nil, unreachable(service.EndpointHealth))

			result := checker.Check(ctx)
			Expect(result.IsError()).To(BeTrue())
			Expect(result.Message).To(Equal("Cannot reach " + baseURL))
			Expect(result.Details).To(ContainElement(ContainSubstring("service.base_url")))
		})

		It("reports the remote message", func() {
			client.EXPECT().Health(gomock.Any()).
				Return(nil, &service.RemoteError{Endpoint: service.EndpointHealth, StatusCode: 503, Message: "warming up"})

			result := checker.Check(ctx)
			Expect(result.IsError()).To(BeTrue())
			Expect(result.Message).To(Equal("warming up"))
		})
	})

	Describe("HardwareChecker", func() {
		var checker *servicechecker.HardwareChecker

		BeforeEach(func() {
			checker = servicechecker.NewHardwareChecker(client, baseURL)
		})

		DescribeTable("device status",
			func(status *service.HardwareStatus, err error, want doctor.Status, sev doctor.Severity, msg string) {
				client.EXPECT().HardwareStatus(gomock.Any()).Return(status, err)

				result := checker.Check(ctx)
				Expect(result.Status).To(Equal(want))
				Expect(result.Severity).To(Equal(sev))
				Expect(result.Message).To(Equal(msg))
			},
			Entry("connected with port",
				&service.HardwareStatus{Connected: true, Port: "/dev/ttyUSB0"}, nil,
				doctor.StatusPass, doctor.SeverityInfo, "Connected on /dev/ttyUSB0"),
			Entry("connected without port",
				&service.HardwareStatus{Connected: true}, nil,
				doctor.StatusPass, doctor.SeverityInfo, "Connected"),
			Entry("detached",
				&service.HardwareStatus{}, nil,
				doctor.StatusFail, doctor.SeverityWarning, "Not connected"),
			Entry("service unreachable",
				nil, unreachable(service.EndpointHardwareStatus),
				doctor.StatusSkipped, doctor.SeverityInfo, "Backend unreachable"),
			Entry("remote failure",
				nil, &service.RemoteError{Endpoint: service.EndpointHardwareStatus, StatusCode: 500},
				doctor.StatusFail, doctor.SeverityWarning, "Status unavailable"),
		)
	})
})
