package prompt_test

import (
	"strings"
	"testing"

	"github.com/okian/kitchen/internal/domain/prompt"
	"github.com/okian/kitchen/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilders(t *testing.T) {
	Convey("Given a scenario text", t, func() {
		scenario := "The fish delivery is two hours late and service starts at six."

		Convey("Then the scenario prompt is stable", func() {
			So(prompt.Scenario(), ShouldEqual, prompt.Scenario())
			So(prompt.Scenario(), ShouldContainSubstring, "restaurant")
		})

		Convey("Then hint and options embed the scenario verbatim", func() {
			So(prompt.Hint(scenario), ShouldContainSubstring, scenario)
			So(prompt.Options(scenario), ShouldContainSubstring, scenario)
			So(prompt.Options(scenario), ShouldContainSubstring, "A, B, C and D")
		})

		Convey("Then the feedback prompt embeds scenario and choice", func() {
			p := prompt.Feedback(scenario, "C")
			So(p, ShouldContainSubstring, scenario)
			So(p, ShouldContainSubstring, "option C")
		})

		Convey("Then the feedback prompt ends with the score request", func() {
			p := prompt.Feedback(scenario, "A")
			So(strings.HasSuffix(p, prompt.ScoreInstruction), ShouldBeTrue)
			So(p, ShouldContainSubstring, "0 to 10")
		})

		Convey("Then a reply honoring the score request is parsed", func() {
			reply := "Calling a backup supplier protects 40 covers.\nScore: 8"
			So(scoring.Strict{}.Extract(reply), ShouldEqual, 8)
		})
	})
}

func TestRecipe(t *testing.T) {
	Convey("Given recipe inputs", t, func() {
		Convey("When the input is present", func() {
			p := prompt.Recipe("vegan, Thai, tofu")
			So(p, ShouldContainSubstring, "User Input: vegan, Thai, tofu")
			So(p, ShouldContainSubstring, "Ingredients list")
		})

		Convey("When the input is blank", func() {
			So(prompt.Recipe("  "), ShouldContainSubstring, "User Input: None")
		})
	})
}
