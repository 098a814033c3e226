package circuits_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/paddock/internal/domain/circuits"
	"github.com/okian/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeMeetings struct {
	list []model.Meeting
	err  error
}

func (f fakeMeetings) Meetings(context.Context, int) ([]model.Meeting, error) {
	return f.list, f.err
}

func TestList(t *testing.T) {
	ctx := context.Background()

	Convey("Given a season with a circuit visited twice", t, func() {
		src := fakeMeetings{list: []model.Meeting{
			{Key: 1256, Name: "Japanese Grand Prix", CircuitKey: 46, DateStart: "2025-04-04T02:30:00+00:00"},
			{Key: 1254, Name: "Australian Grand Prix", CircuitKey: 10, DateStart: "2025-03-14T01:30:00+00:00"},
			{Key: 1280, Name: "Pre-Season Testing", CircuitKey: 63, DateStart: "2025-02-26T07:00:00+00:00"},
			{Key: 1290, Name: "Second Bahrain Event", CircuitKey: 63, DateStart: "2025-04-11T15:00:00+00:00"},
		}}

		Convey("When listing circuits", func() {
			got := circuits.NewLister(src, nil).List(ctx, 2025)

			Convey("Then each circuit appears once, keeping the first meeting", func() {
				So(len(got), ShouldEqual, 3)
				So(got[0].Key, ShouldEqual, 1280)
			})

			Convey("Then circuits are ordered by start date", func() {
				So(got[1].CircuitKey, ShouldEqual, 10)
				So(got[2].CircuitKey, ShouldEqual, 46)
			})
		})
	})

	Convey("Given a failing source", t, func() {
		got := circuits.NewLister(fakeMeetings{err: errors.New("timeout")}, nil).List(ctx, 2025)
		So(got, ShouldNotBeNil)
		So(got, ShouldBeEmpty)
	})
}
