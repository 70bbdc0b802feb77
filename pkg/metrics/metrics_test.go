package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("dashboard"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRegistry(registry),
			)
			So(manager, ShouldNotBeNil)
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("When recording request metrics", func() {
			manager.RecordHTTPRequest("table", "GET", "200")
			manager.RecordHTTPRequestDuration("table", "GET", 0.042)
			manager.RecordUpstreamRequest("hosts", "200")
			manager.RecordUpstreamRequestDuration(0.123)
			manager.RecordUpstreamError("transport")

			Convey("Then the registry gathers them", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThanOrEqualTo, 5)
			})
		})

		Convey("When metrics are disabled", func() {
			disabled := NewManager(WithRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

			Convey("Then recording is a no-op and does not panic", func() {
				disabled.RecordHTTPRequest("table", "GET", "200")
				disabled.RecordUpstreamError("contract")
				So(disabled, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the registry is available for the metrics handler", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("And the package-level helpers record without panicking", func() {
			RecordHTTPRequest("index", "GET", "200")
			RecordHTTPRequestDuration("index", "GET", 0.001)
			RecordUpstreamRequest("services", "500")
			RecordUpstreamRequestDuration(0.2)
			RecordUpstreamError("contract")
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
