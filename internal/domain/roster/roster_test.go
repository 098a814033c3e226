package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	drivers map[int][]model.Driver
	err     error
	calls   int
}

func (f *fakeSource) Drivers(_ context.Context, sessionKey int) ([]model.Driver, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.drivers[sessionKey], nil
}

const colapintoURL = "https://media.formula1.com/colapinto"

func TestBuild(t *testing.T) {
	ctx := context.Background()
	ref := model.Session{Key: 9693}

	Convey("Given a driver listing with a duplicate number", t, func() {
		src := &fakeSource{drivers: map[int][]model.Driver{9693: {
			{Number: 44, FullName: "Lewis Hamilton", TeamName: "Ferrari", HeadshotURL: "https://img/ham"},
			{Number: 1, FullName: "Max Verstappen", TeamName: "Red Bull Racing"},
			{Number: 44, FullName: "Lewis Hamilton", TeamName: "Mercedes"},
		}}}
		b := roster.NewBuilder(src)

		Convey("When building the roster", func() {
			got := b.Build(ctx, ref)

			Convey("Then each number appears once and the first record wins", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].Number, ShouldEqual, 44)
				So(got[0].TeamName, ShouldEqual, "Ferrari")
				So(got[1].Number, ShouldEqual, 1)
			})
		})
	})

	Convey("Given headshot fallbacks", t, func() {
		fb := roster.NewFallbacks(
			map[string]string{"Franco Colapinto": colapintoURL},
			map[int]string{12: "https://img/by-number-12", 43: "https://img/by-number-43"},
		)
		src := &fakeSource{drivers: map[int][]model.Driver{9693: {
			{Number: 43, FullName: "Franco Colapinto"},
			{Number: 12, FullName: "Kimi Antonelli"},
			{Number: 5, FullName: "Gabriel Bortoleto", HeadshotURL: "https://img/own"},
			{Number: 99, FullName: "Nobody"},
		}}}
		got := roster.NewBuilder(src, roster.WithFallbacks(fb)).Build(ctx, ref)

		Convey("Then the name lookup wins over the number lookup", func() {
			So(got[0].HeadshotURL, ShouldEqual, colapintoURL)
		})

		Convey("Then the number lookup applies when the name is unknown", func() {
			So(got[1].HeadshotURL, ShouldEqual, "https://img/by-number-12")
		})

		Convey("Then a source headshot is never replaced", func() {
			So(got[2].HeadshotURL, ShouldEqual, "https://img/own")
		})

		Convey("Then drivers without any match stay empty", func() {
			So(got[3].HeadshotURL, ShouldBeEmpty)
		})
	})

	Convey("Given fallback maps that change after construction", t, func() {
		byName := map[string]string{"Franco Colapinto": colapintoURL}
		fb := roster.NewFallbacks(byName, nil)
		byName["Franco Colapinto"] = "https://img/changed"

		Convey("Then the Fallbacks keep their own copy", func() {
			url, ok := fb.Headshot("Franco Colapinto", 43)
			So(ok, ShouldBeTrue)
			So(url, ShouldEqual, colapintoURL)
			So(fb.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given a zero reference session", t, func() {
		src := &fakeSource{}
		got := roster.NewBuilder(src).Build(ctx, model.Session{})

		Convey("Then the roster is empty and nothing is fetched", func() {
			So(got, ShouldBeEmpty)
			So(src.calls, ShouldEqual, 0)
		})
	})

	Convey("Given a failing source", t, func() {
		got := roster.NewBuilder(&fakeSource{err: errors.New("503")}).Build(ctx, ref)

		Convey("Then the roster is empty", func() {
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}
