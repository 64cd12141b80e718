package session

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kitchen/internal/domain/model"
)

func TestNew(t *testing.T) {
	Convey("Given a player name", t, func() {
		Convey("Then blank names are rejected", func() {
			_, err := New("r1", "   ")
			So(err, ShouldEqual, ErrMissingPlayer)
		})

		Convey("Then names are trimmed and the round starts NotStarted", func() {
			s, err := New("r1", "  Alice ")
			So(err, ShouldBeNil)
			So(s.Player(), ShouldEqual, "Alice")
			So(s.ID(), ShouldEqual, "r1")
			So(s.State(), ShouldEqual, NotStarted)
		})
	})
}

func TestHappyPath(t *testing.T) {
	Convey("Given a new round", t, func() {
		s, err := New("r1", "Bob")
		So(err, ShouldBeNil)

		Convey("When it runs to completion", func() {
			So(s.SetScenario("Walk-in cooler failed", "Check the logs", "A) ... D) ..."), ShouldBeNil)
			So(s.State(), ShouldEqual, ScenarioGenerated)

			c, err := s.Choose(" b ")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, model.ChoiceB)

			c, err = s.Choose("C")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, model.ChoiceC)
			So(s.State(), ShouldEqual, ChoiceMade)

			So(s.Score("Good call. Score: 12", 12), ShouldBeNil)
			credited, err := s.Credit(func(score int) (int, error) { return score - 2, nil })
			So(err, ShouldBeNil)
			So(credited, ShouldBeTrue)

			Convey("Then the view carries the scored result", func() {
				v := s.View()
				So(v.State, ShouldEqual, "scored")
				So(v.Choice, ShouldEqual, "C")
				So(*v.Score, ShouldEqual, model.MaxScore)
				So(*v.Total, ShouldEqual, 8)
				So(v.Scenario, ShouldEqual, "Walk-in cooler failed")
				So(s.Feedback().Score, ShouldEqual, 10)
			})

			Convey("Then Scored is terminal", func() {
				_, err := s.Choose("A")
				So(err, ShouldWrap, ErrInvalidTransition)
				So(s.Score("again", 3), ShouldWrap, ErrInvalidTransition)
				So(s.SetScenario("x", "y", "z"), ShouldWrap, ErrInvalidTransition)
			})
		})
	})
}

func TestCredit(t *testing.T) {
	Convey("Given a round", t, func() {
		s, _ := New("r1", "Alice")
		calls := 0
		apply := func(score int) (int, error) {
			calls++
			return score, nil
		}

		Convey("Then it cannot be credited before it is scored", func() {
			_, err := s.Credit(apply)
			So(err, ShouldWrap, ErrInvalidTransition)
			So(calls, ShouldEqual, 0)
		})

		Convey("When the round is scored", func() {
			So(s.SetScenario("Fryer fire", "", ""), ShouldBeNil)
			_, _ = s.Choose("A")
			So(s.Score("Score: 6", 6), ShouldBeNil)

			Convey("Then a failed apply leaves it uncredited for a retry", func() {
				credited, err := s.Credit(func(int) (int, error) { return 0, errors.New("disk full") })
				So(err, ShouldNotBeNil)
				So(credited, ShouldBeFalse)
				So(s.Credited(), ShouldBeFalse)
				So(s.View().Total, ShouldBeNil)

				credited, err = s.Credit(apply)
				So(err, ShouldBeNil)
				So(credited, ShouldBeTrue)
			})

			Convey("Then only the first successful credit applies", func() {
				for range 3 {
					_, err := s.Credit(apply)
					So(err, ShouldBeNil)
				}
				So(calls, ShouldEqual, 1)
				So(s.Credited(), ShouldBeTrue)
				So(*s.View().Total, ShouldEqual, 6)
			})
		})
	})
}

func TestInvalidTransitions(t *testing.T) {
	Convey("Given a round that has not started", t, func() {
		s, _ := New("r1", "Alice")

		Convey("Then choosing or scoring is rejected", func() {
			_, err := s.Choose("A")
			So(err, ShouldWrap, ErrInvalidTransition)
			So(s.Score("fb", 5), ShouldWrap, ErrInvalidTransition)
			So(s.View().Score, ShouldBeNil)
		})

		Convey("Then an unknown label is an invalid choice", func() {
			So(s.SetScenario("s", "h", "o"), ShouldBeNil)
			_, err := s.Choose("E")
			So(err, ShouldWrap, model.ErrInvalidChoice)
			So(s.State(), ShouldEqual, ScenarioGenerated)
		})

		Convey("Then scoring before a choice is rejected", func() {
			So(s.SetScenario("s", "h", "o"), ShouldBeNil)
			So(s.Score("fb", 5), ShouldWrap, ErrInvalidTransition)
		})

		Convey("Then the scenario cannot be replaced", func() {
			So(s.SetScenario("s", "h", "o"), ShouldBeNil)
			So(s.SetScenario("s2", "h2", "o2"), ShouldWrap, ErrInvalidTransition)
			So(s.Scenario(), ShouldEqual, "s")
		})
	})
}

func TestStateString(t *testing.T) {
	Convey("State names are stable", t, func() {
		So(NotStarted.String(), ShouldEqual, "not_started")
		So(ChoiceMade.String(), ShouldEqual, "choice_made")
		So(State(9).String(), ShouldEqual, "state(9)")
	})
}
