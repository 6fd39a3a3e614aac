package testclips_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/stride/internal/adapters/http/api"
	app "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/testclips"
	"github.com/okian/stride/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithLevel("error"))
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running stride service", t, func() {
		svc := app.New(app.WithWorkerCount(2))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		convey.Convey("When the clip test runs against it", func() {
			err := testclips.Run(ctx, &testclips.Config{
				BaseURL:   srv.URL,
				NumClips:  3,
				Frames:    40,
				BlendMode: "inertial",
				Workers:   2,
				Timeout:   10 * time.Second,
			})

			convey.Convey("Then it completes and every clip is stored", func() {
				convey.So(err, convey.ShouldBeNil)
				var list testclips.ClipList
				_, err := testclips.NewHTTPClient(srv.URL, time.Second).Get(ctx, "/clips", &list)
				convey.So(err, convey.ShouldBeNil)
				convey.So(list.Count, convey.ShouldEqual, 8)
			})
		})
	})

	convey.Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		convey.Convey("Then the run stops at the health check", func() {
			err := testclips.Run(context.Background(), &testclips.Config{
				BaseURL: srv.URL,
				Workers: 1,
				Timeout: time.Second,
			})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "health check")
		})
	})
}
