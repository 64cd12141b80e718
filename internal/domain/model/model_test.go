package model_test

import (
	"testing"

	"github.com/okian/kitchen/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseChoice(t *testing.T) {
	Convey("Given choice labels", t, func() {
		Convey("When the label is known in any case", func() {
			for in, want := range map[string]model.Choice{"A": model.ChoiceA, "b": model.ChoiceB, " c ": model.ChoiceC, "D": model.ChoiceD} {
				got, err := model.ParseChoice(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When the label is outside the set", func() {
			for _, in := range []string{"", "E", "AB", "1"} {
				_, err := model.ParseChoice(in)
				So(err, ShouldWrap, model.ErrInvalidChoice)
			}
		})
	})
}

func TestClampScore(t *testing.T) {
	Convey("Given raw scores", t, func() {
		So(model.ClampScore(-3), ShouldEqual, 0)
		So(model.ClampScore(0), ShouldEqual, 0)
		So(model.ClampScore(7), ShouldEqual, 7)
		So(model.ClampScore(10), ShouldEqual, 10)
		So(model.ClampScore(15), ShouldEqual, 10)
	})
}

func TestNormalizePlayer(t *testing.T) {
	Convey("Given a padded display name", t, func() {
		So(model.NormalizePlayer("  Alice\t"), ShouldEqual, "Alice")
		So(model.NormalizePlayer("   "), ShouldEqual, "")
	})
}
