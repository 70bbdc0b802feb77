package render_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"icingview/internal/domain/row"
	"icingview/internal/render"
	"icingview/pkg/logger"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	if err := logger.InitWithWriter(io.Discard); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return render.New(logger.Named("render"))
}

func TestPlainText(t *testing.T) {
	Convey("Given the renderer", t, func() {
		rd := newRenderer(t)

		Convey("When writing plain text", func() {
			rec := httptest.NewRecorder()
			rd.PlainText(rec, http.StatusBadRequest, `missing required parameter "objtype"`)

			Convey("Then status, content type and body match", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "text/plain; charset=utf-8")
				So(rec.Body.String(), ShouldEqual, `missing required parameter "objtype"`)
			})
		})

		Convey("When writing the shared 404", func() {
			rec := httptest.NewRecorder()
			rd.NotFound(rec)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(rec.Body.String(), ShouldEqual, "404 Not Found")
		})

		Convey("When writing the fixed 500", func() {
			rec := httptest.NewRecorder()
			rd.InternalError(rec)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(rec.Body.String(), ShouldEqual, "500 Internal Server Error")
		})
	})
}

func TestHTMLViews(t *testing.T) {
	ctx := context.Background()

	Convey("Given the renderer", t, func() {
		rd := newRenderer(t)

		Convey("When rendering the index", func() {
			rec := httptest.NewRecorder()
			rd.Index(ctx, rec)

			Convey("Then the query form is present", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(rec.Body.String(), ShouldContainSubstring, `id="query-form"`)
				So(rec.Body.String(), ShouldContainSubstring, `name="objtype"`)
				So(rec.Body.String(), ShouldContainSubstring, `name="filter"`)
			})
		})

		Convey("When rendering the table", func() {
			rec := httptest.NewRecorder()
			rd.Table(ctx, rec, []row.Row{
				{Host: "web01", Service: "disk", Output: `DISK OK - free space: / 1234 MB`, State: 0},
				{Host: "web02", Service: "", Output: "<b>sneaky</b>", State: 2},
			})
			body := rec.Body.String()

			Convey("Then rows appear with their cells", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, "<td>web01</td>")
				So(body, ShouldContainSubstring, "<td>disk</td>")
				So(body, ShouldContainSubstring, `class="state-0"`)
				So(body, ShouldContainSubstring, `class="state-2"`)
			})

			Convey("And output is HTML-escaped", func() {
				So(body, ShouldContainSubstring, "&lt;b&gt;sneaky&lt;/b&gt;")
				So(body, ShouldNotContainSubstring, "<b>sneaky</b>")
			})
		})

		Convey("When rendering an empty table", func() {
			rec := httptest.NewRecorder()
			rd.Table(ctx, rec, nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "<table")
		})

		Convey("When rendering an upstream error", func() {
			rec := httptest.NewRecorder()
			rd.UpstreamError(ctx, rec, 503, `{"error":"backend unavailable"}`)
			body := rec.Body.String()

			Convey("Then the page carries outer 200 with the inner status embedded", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, "503")
				So(body, ShouldContainSubstring, "backend unavailable")
			})
		})
	})
}
