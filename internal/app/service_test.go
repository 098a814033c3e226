package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/paddock/internal/adapters/repository"
	service "github.com/okian/paddock/internal/app"
	"github.com/okian/paddock/internal/domain/points"
	"github.com/okian/paddock/internal/domain/roster"
	"github.com/okian/paddock/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestService_Standings(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a two race season", t, func() {
		up := &fakeUpstream{}
		svc := service.New(service.WithUpstream(up), service.WithLogger(logger.Named("service")))
		defer svc.Stop()

		Convey("When computing standings", func() {
			got, err := svc.Standings(ctx, 2025)

			Convey("Then drivers are ranked by points", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
				So(got[0].Driver.Number, ShouldEqual, 4)
				So(got[0].Points, ShouldEqual, 43)
				So(got[0].Wins, ShouldEqual, 1)
				So(got[1].Driver.Number, ShouldEqual, 1)
				So(got[1].Points, ShouldEqual, 30)
				So(got[2].Driver.Number, ShouldEqual, 81)
				So(got[2].Points, ShouldEqual, 27)
				So(got[2].Rank, ShouldEqual, 3)
			})

			Convey("Then a second call is served from the snapshot", func() {
				calls := up.positionCalls.Load()
				again, err := svc.Standings(ctx, 2025)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, got)
				So(up.positionCalls.Load(), ShouldEqual, calls)
			})
		})

		Convey("When reading the top of the table", func() {
			top, err := svc.TopN(ctx, 2025, 2)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[0].FullName, ShouldEqual, "Lando NORRIS")
			So(top[0].TeamColour, ShouldEqual, "#666666")

			_, err = svc.TopN(ctx, 2025, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When looking up a driver", func() {
			e, err := svc.Rank(ctx, 2025, 81)
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 3)
			So(e.Wins, ShouldEqual, 1)

			_, err = svc.Rank(ctx, 2025, 99)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the season has no races", func() {
			got, err := svc.Standings(ctx, 1950)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)

			top, err := svc.TopN(ctx, 1950, 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)

			_, err = svc.Rank(ctx, 1950, 1)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable upstream", t, func() {
		up := &fakeUpstream{}
		up.setDown(true)
		svc := service.New(service.WithUpstream(up))
		defer svc.Stop()

		Convey("Then standings are empty and nothing is cached", func() {
			got, err := svc.Standings(ctx, 2025)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
			So(svc.GetStats()["cachedSeasons"], ShouldBeEmpty)

			Convey("And recover once the upstream is back", func() {
				up.setDown(false)
				got, err := svc.Standings(ctx, 2025)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
			})
		})
	})

	Convey("Given concurrent callers for one season", t, func() {
		up := &fakeUpstream{delay: 20 * time.Millisecond}
		svc := service.New(service.WithUpstream(up))
		defer svc.Stop()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.Standings(ctx, 2025)
			}()
		}
		wg.Wait()

		Convey("Then they share one computation", func() {
			So(up.positionCalls.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given a shared computation whose first caller is cancelled", t, func() {
		up := &fakeUpstream{delay: 100 * time.Millisecond}
		svc := service.New(service.WithUpstream(up))
		defer svc.Stop()

		firstCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		var (
			wg                 sync.WaitGroup
			firstErr, laterErr error
			later              int
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, firstErr = svc.Standings(firstCtx, 2025)
		}()
		time.Sleep(10 * time.Millisecond)
		go func() {
			defer wg.Done()
			got, err := svc.Standings(ctx, 2025)
			later, laterErr = len(got), err
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()
		wg.Wait()

		Convey("Then the other caller still gets the standings", func() {
			So(errors.Is(firstErr, context.Canceled), ShouldBeTrue)
			So(laterErr, ShouldBeNil)
			So(later, ShouldEqual, 3)
			So(up.positionCalls.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given a custom points table and parallel fetches", t, func() {
		svc := service.New(
			service.WithUpstream(&fakeUpstream{}),
			service.WithPointsTable(points.NewPointsTable(10, 6, 4, 3, 2, 1)),
			service.WithFetchConcurrency(4),
		)
		defer svc.Stop()

		got, err := svc.Standings(ctx, 2025)
		So(err, ShouldBeNil)
		So(got[0].Driver.Number, ShouldEqual, 4)
		So(got[0].Points, ShouldEqual, 16)
		So(got[1].Points, ShouldEqual, 10)
		So(got[2].Points, ShouldEqual, 9)
	})
}

func TestService_DriversAndCircuits(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a headshot fallback", t, func() {
		fb := roster.NewFallbacks(map[string]string{"Franco COLAPINTO": "https://img/colapinto"}, nil)
		svc := service.New(service.WithUpstream(&fakeUpstream{}), service.WithFallbacks(fb))
		defer svc.Stop()

		Convey("When listing drivers", func() {
			got := svc.Drivers(ctx, 2025)

			Convey("Then the latest session of any type is used, ordered by number", func() {
				So(len(got), ShouldEqual, 4)
				numbers := []int{got[0].Number, got[1].Number, got[2].Number, got[3].Number}
				So(numbers, ShouldResemble, []int{1, 4, 43, 81})
				So(got[2].HeadshotURL, ShouldEqual, "https://img/colapinto")
			})
		})

		Convey("When listing circuits", func() {
			got := svc.Circuits(ctx, 2025)
			So(len(got), ShouldEqual, 2)
			So(got[0].CircuitKey, ShouldEqual, 10)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		up := &fakeUpstream{}
		svc := service.New(service.WithUpstream(up), service.WithWorkerCount(2), service.WithQueueSize(4))
		defer svc.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When not started", func() {
			So(svc.Refresh(ctx, 2025), ShouldBeFalse)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["workerCount"], ShouldEqual, 2)

			Convey("And a refresh is requested", func() {
				So(svc.Refresh(ctx, 2025), ShouldBeTrue)

				Convey("Then the workers store the season", func() {
					So(waitFor(func() bool {
						seasons, _ := svc.GetStats()["cachedSeasons"].([]int)
						return len(seasons) == 1
					}), ShouldBeTrue)
				})
			})

			Convey("And stopped twice", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Refresh(ctx, 2025), ShouldBeFalse)
			})
		})
	})

	Convey("Given a service that keeps seasons warm", t, func() {
		svc := service.New(
			service.WithUpstream(&fakeUpstream{}),
			service.WithRefresh(time.Hour, 2025),
		)
		defer svc.Stop()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the season is computed right after start", func() {
			So(waitFor(func() bool {
				seasons, _ := svc.GetStats()["cachedSeasons"].([]int)
				return len(seasons) == 1 && seasons[0] == 2025
			}), ShouldBeTrue)
		})
	})
}

func TestService_Compute(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		svc := service.New(service.WithUpstream(&fakeUpstream{}))
		defer svc.Stop()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Compute(ctx, 2025)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
