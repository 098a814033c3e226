package model_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSeason(t *testing.T) {
	Convey("Given season query values", t, func() {
		Convey("An empty value gives the fallback", func() {
			got, err := model.ParseSeason("  ", 2025)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 2025)
		})

		Convey("Years within the championship era are accepted", func() {
			for _, raw := range []string{"1950", " 2024 ", strconv.Itoa(model.MaxSeason())} {
				_, err := model.ParseSeason(raw, 2025)
				So(err, ShouldBeNil)
			}
		})

		Convey("Other values are rejected", func() {
			for _, raw := range []string{"abc", "-1", "0", "1949", "3000", strconv.Itoa(model.MaxSeason() + 1)} {
				_, err := model.ParseSeason(raw, 2025)
				So(errors.Is(err, model.ErrBadSeason), ShouldBeTrue)
			}
		})
	})
}
