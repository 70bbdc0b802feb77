package icinga

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"icingview/internal/domain/row"
)

func TestObjectsURL(t *testing.T) {
	Convey("Given base URLs", t, func() {
		Convey("When the base ends with a slash", func() {
			u, err := ObjectsURL("https://icinga.example.com:5665/v1/", row.Hosts)

			Convey("Then the objects path lands under it", func() {
				So(err, ShouldBeNil)
				So(u.String(), ShouldEqual, "https://icinga.example.com:5665/v1/objects/hosts")
			})
		})

		Convey("When the base has no trailing slash", func() {
			u, err := ObjectsURL("https://icinga.example.com:5665/v1", row.Services)

			Convey("Then relative resolution replaces the last segment", func() {
				So(err, ShouldBeNil)
				So(u.String(), ShouldEqual, "https://icinga.example.com:5665/objects/services")
			})
		})

		Convey("When the base is malformed", func() {
			_, err := ObjectsURL("http://[::1", row.Hosts)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestQueryObjects(t *testing.T) {
	Convey("Given a backend recording the exchange", t, func() {
		var (
			gotMethod   string
			gotOverride string
			gotUser     string
			gotPass     string
			gotBody     string
		)
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotMethod = r.Method
			gotOverride = r.Header.Get("X-HTTP-Method-Override")
			gotUser, gotPass, _ = r.BasicAuth()
			gotBody = string(body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"results": []}`))
		}))
		defer backend.Close()

		client := New(5*time.Second, false)
		target, err := ObjectsURL(backend.URL+"/v1/", row.Hosts)
		So(err, ShouldBeNil)

		Convey("When querying objects", func() {
			resp, err := client.QueryObjects(context.Background(), target,
				Credentials{Username: "user", Password: "pass"}, `host.name=="web"`)

			Convey("Then the exchange succeeds with the raw body", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(resp.Body), ShouldEqual, `{"results": []}`)
			})

			Convey("And the request carries the API conventions", func() {
				So(gotMethod, ShouldEqual, http.MethodPost)
				So(gotOverride, ShouldEqual, "GET")
				So(gotUser, ShouldEqual, "user")
				So(gotPass, ShouldEqual, "pass")
				So(gotBody, ShouldEqual, `{"filter":"host.name==\"web\""}`)
			})
		})
	})

	Convey("Given a backend answering with an error status", t, func() {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no such object"}`))
		}))
		defer backend.Close()

		client := New(5*time.Second, false)
		target, err := ObjectsURL(backend.URL+"/v1/", row.Services)
		So(err, ShouldBeNil)

		Convey("When querying objects", func() {
			resp, err := client.QueryObjects(context.Background(), target, Credentials{}, "x")

			Convey("Then a non-200 status is not a transport error", func() {
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(string(resp.Body), ShouldEqual, `{"error":"no such object"}`)
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		client := New(1*time.Second, false)
		target, err := ObjectsURL("http://127.0.0.1:1/v1/", row.Hosts)
		So(err, ShouldBeNil)

		Convey("When querying objects", func() {
			_, err := client.QueryObjects(context.Background(), target, Credentials{}, "x")

			Convey("Then the transport failure surfaces as an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a cancelled request context", t, func() {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server watches the connection and sees
			// the client disconnect; otherwise Done never fires and Close hangs.
			_, _ = io.ReadAll(r.Body)
			<-r.Context().Done()
		}))
		defer backend.Close()

		client := New(5*time.Second, false)
		target, err := ObjectsURL(backend.URL+"/v1/", row.Hosts)
		So(err, ShouldBeNil)

		Convey("When the context is cancelled mid-call", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err := client.QueryObjects(ctx, target, Credentials{}, "x")

			Convey("Then cancellation propagates to the outbound call", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
