package openf1_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/paddock/internal/adapters/openf1"
	"github.com/okian/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeAPI struct {
	hits      atomic.Int32
	lastQuery atomic.Value
	userAgent atomic.Value
	status    int
	delay     time.Duration
	bodies    map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.lastQuery.Store(r.URL.RawQuery)
	f.userAgent.Store(r.UserAgent())
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"detail":"nope"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(f.bodies[r.URL.Path]))
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fake OpenF1 server", t, func() {
		api := &fakeAPI{bodies: map[string]string{
			"/v1/sessions": `[{"session_key":9693,"session_name":"Race","session_type":"Race","date_start":"2025-03-16T04:00:00+00:00","meeting_key":1254,"circuit_short_name":"Melbourne","year":2025}]`,
			"/v1/drivers":  `[{"driver_number":1,"full_name":"Max VERSTAPPEN","name_acronym":"VER","team_name":"Red Bull Racing","team_colour":"3671C6","headshot_url":"","country_code":"NED"}]`,
			"/v1/position": `{"data":[{"date":"2025-03-16T05:00:00+00:00","driver_number":1,"position":2,"session_key":9693}]}`,
			"/v1/meetings": `[{"meeting_key":1254,"meeting_name":"Australian Grand Prix","circuit_key":10,"date_start":"2025-03-14T01:30:00+00:00","year":2025}]`,
		}}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := openf1.New(srv.URL+"/v1", openf1.WithUserAgent("paddock-test"))

		Convey("When listing race sessions", func() {
			got, err := c.Sessions(ctx, model.SessionQuery{Year: 2025, Name: "Race"})

			Convey("Then sessions decode and filters are sent", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Key, ShouldEqual, 9693)
				So(got[0].CircuitShortName, ShouldEqual, "Melbourne")
				So(api.lastQuery.Load(), ShouldEqual, "session_name=Race&year=2025")
				So(api.userAgent.Load(), ShouldEqual, "paddock-test")
			})
		})

		Convey("When listing sessions without a type", func() {
			_, err := c.Sessions(ctx, model.SessionQuery{Year: 2025})
			So(err, ShouldBeNil)
			So(api.lastQuery.Load(), ShouldEqual, "year=2025")
		})

		Convey("When fetching drivers, positions and meetings", func() {
			drivers, err := c.Drivers(ctx, 9693)
			So(err, ShouldBeNil)
			So(drivers[0].Acronym, ShouldEqual, "VER")
			So(api.lastQuery.Load(), ShouldEqual, "session_key=9693")

			batch, err := c.Positions(ctx, 9693)
			So(err, ShouldBeNil)
			So(batch.Shape, ShouldEqual, model.ShapeWrappedData)
			So(batch.Records[0].Position, ShouldEqual, 2)

			meetings, err := c.Meetings(ctx, 2025)
			So(err, ShouldBeNil)
			So(meetings[0].CircuitKey, ShouldEqual, 10)
		})

		Convey("When the same resource is requested twice", func() {
			_, _ = c.Drivers(ctx, 9693)
			_, _ = c.Drivers(ctx, 9693)

			Convey("Then the second call is served from cache", func() {
				So(api.hits.Load(), ShouldEqual, 1)
				So(c.CacheSize(), ShouldEqual, 1)
			})

			Convey("Then a purge forces a new fetch", func() {
				c.Purge()
				_, _ = c.Drivers(ctx, 9693)
				So(api.hits.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a cache entry that has expired", t, func() {
		api := &fakeAPI{bodies: map[string]string{"/meetings": `[]`}}
		srv := httptest.NewServer(api)
		defer srv.Close()

		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		c := openf1.New(srv.URL, openf1.WithCacheTTL(time.Hour), openf1.WithClock(clock))

		_, _ = c.Meetings(ctx, 2025)
		mu.Lock()
		now = now.Add(2 * time.Hour)
		mu.Unlock()
		_, _ = c.Meetings(ctx, 2025)

		Convey("Then the resource is fetched again", func() {
			So(api.hits.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given expired entries for other resources", t, func() {
		api := &fakeAPI{bodies: map[string]string{"/meetings": `[]`, "/drivers": `[]`}}
		srv := httptest.NewServer(api)
		defer srv.Close()

		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		c := openf1.New(srv.URL, openf1.WithCacheTTL(time.Hour), openf1.WithClock(clock))

		_, _ = c.Meetings(ctx, 2025)
		So(c.CacheSize(), ShouldEqual, 1)
		mu.Lock()
		now = now.Add(2 * time.Hour)
		mu.Unlock()

		Convey("Then stale entries are not counted", func() {
			So(c.CacheSize(), ShouldEqual, 0)
		})

		Convey("Then storing a new response evicts them", func() {
			_, err := c.Drivers(ctx, 9693)
			So(err, ShouldBeNil)
			So(c.CacheSize(), ShouldEqual, 1)
			_, _ = c.Meetings(ctx, 2025)
			So(api.hits.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given a shared request whose first caller gives up", t, func() {
		api := &fakeAPI{delay: 200 * time.Millisecond, bodies: map[string]string{"/sessions": `[{"session_key":1}]`}}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := openf1.New(srv.URL, openf1.WithCacheTTL(0))

		leaderCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		var (
			wg                  sync.WaitGroup
			leaderErr, otherErr error
			otherSessions       []model.Session
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, leaderErr = c.Sessions(leaderCtx, model.SessionQuery{Year: 2025})
		}()
		time.Sleep(20 * time.Millisecond)
		go func() {
			defer wg.Done()
			otherSessions, otherErr = c.Sessions(ctx, model.SessionQuery{Year: 2025})
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()
		wg.Wait()

		Convey("Then only that caller sees the cancellation", func() {
			So(errors.Is(leaderErr, context.Canceled), ShouldBeTrue)
			So(errors.Is(leaderErr, openf1.ErrRequest), ShouldBeTrue)
			So(otherErr, ShouldBeNil)
			So(len(otherSessions), ShouldEqual, 1)
			So(api.hits.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given concurrent identical requests", t, func() {
		api := &fakeAPI{delay: 50 * time.Millisecond, bodies: map[string]string{"/sessions": `[]`}}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := openf1.New(srv.URL, openf1.WithCacheTTL(0))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = c.Sessions(ctx, model.SessionQuery{Year: 2025})
			}()
		}
		wg.Wait()

		Convey("Then they share upstream calls", func() {
			So(api.hits.Load(), ShouldBeLessThan, 8)
			So(c.CacheSize(), ShouldEqual, 0)
		})
	})

	Convey("Given an upstream error status", t, func() {
		api := &fakeAPI{status: http.StatusServiceUnavailable}
		srv := httptest.NewServer(api)
		defer srv.Close()
		c := openf1.New(srv.URL)

		Convey("When fetching", func() {
			_, err := c.Drivers(ctx, 1)
			_, perr := c.Positions(ctx, 1)

			Convey("Then the error wraps ErrUpstreamStatus and nothing is cached", func() {
				So(errors.Is(err, openf1.ErrUpstreamStatus), ShouldBeTrue)
				So(errors.Is(perr, openf1.ErrUpstreamStatus), ShouldBeTrue)
				So(c.CacheSize(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a malformed body", t, func() {
		api := &fakeAPI{bodies: map[string]string{"/drivers": `{"driver_number":`}}
		srv := httptest.NewServer(api)
		defer srv.Close()

		_, err := openf1.New(srv.URL).Drivers(ctx, 1)
		So(errors.Is(err, openf1.ErrDecode), ShouldBeTrue)
	})

	Convey("Given an unreachable server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := openf1.New(srv.URL, openf1.WithTimeout(time.Second)).Meetings(ctx, 2025)
		So(errors.Is(err, openf1.ErrRequest), ShouldBeTrue)
	})
}
