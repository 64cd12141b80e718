package ai

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/genai"

	"github.com/okian/kitchen/internal/domain/content"
	"github.com/okian/kitchen/pkg/logger"
)

func TestCollaboratorAsk(t *testing.T) {
	Convey("Given a collaborator", t, func() {
		ctx := context.Background()
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)

		var (
			gotPrompt string
			gotParts  []content.Part
			reply     string
			replyErr  error
		)
		gen := GeneratorFunc(func(_ context.Context, prompt string, parts ...content.Part) (string, error) {
			gotPrompt, gotParts = prompt, parts
			return reply, replyErr
		})
		c := NewCollaborator(gen, WithFallbackMessage("try later"), WithLogger(logger.Get()))

		Convey("When the model answers", func() {
			reply = "A busy Friday night..."
			out := c.Ask(ctx, "scenario", "p", content.Part{Kind: content.PartText, Text: "extra"})

			Convey("Then the text is returned verbatim with the inputs forwarded", func() {
				So(out, ShouldEqual, "A busy Friday night...")
				So(gotPrompt, ShouldEqual, "p")
				So(gotParts, ShouldHaveLength, 1)
			})
		})

		Convey("When the model answers with whitespace only", func() {
			reply = "  \n"

			Convey("Then the fallback is returned", func() {
				So(c.Ask(ctx, "hint", "p"), ShouldEqual, "try later")
				_, err := c.Generate(ctx, "hint", "p")
				So(err, ShouldEqual, ErrEmptyResponse)
			})
		})

		Convey("When the model fails", func() {
			replyErr = errors.New("quota exceeded")
			out := c.Ask(ctx, "feedback", "p")

			Convey("Then the error and fallback are both shown", func() {
				So(out, ShouldEqual, "⚠️ AI Error: quota exceeded\ntry later")
				So(buf.String(), ShouldContainSubstring, "generation failed")
				So(buf.String(), ShouldContainSubstring, "kind=feedback")
			})
		})

		Convey("Then the default fallback is used when none is set", func() {
			So(NewCollaborator(gen).Fallback(), ShouldEqual, DefaultFallbackMessage)
		})
	})
}

func TestBuildContent(t *testing.T) {
	Convey("Given a prompt with text and image parts", t, func() {
		c := BuildContent("make a recipe",
			content.Part{Kind: content.PartText, Text: "eggs"},
			content.Part{Kind: content.PartImage, Data: []byte{1, 2}, MIME: "image/png"},
			content.Part{Kind: content.PartDocument},
		)

		Convey("Then the prompt comes first and empty text parts are dropped", func() {
			So(c.Role, ShouldEqual, string(genai.RoleUser))
			So(c.Parts, ShouldHaveLength, 3)
			So(c.Parts[0].Text, ShouldEqual, "make a recipe")
			So(c.Parts[1].Text, ShouldEqual, "eggs")
			So(c.Parts[2].InlineData.MIMEType, ShouldEqual, "image/png")
			So(c.Parts[2].InlineData.Data, ShouldResemble, []byte{1, 2})
		})
	})
}

func TestGeneratorOptions(t *testing.T) {
	Convey("Given a generator without settings", t, func() {
		g := &GenAIGenerator{}

		Convey("Then unset values keep the model defaults", func() {
			WithTemperature(0)(g)
			WithMaxOutputTokens(0)(g)
			So(g.config, ShouldBeNil)
		})

		Convey("Then positive values populate the request config", func() {
			WithTemperature(0.4)(g)
			WithMaxOutputTokens(512)(g)
			So(g.config, ShouldNotBeNil)
			So(*g.config.Temperature, ShouldAlmostEqual, 0.4, 1e-6)
			So(g.config.MaxOutputTokens, ShouldEqual, int32(512))
		})
	})
}

func TestNewGenAIGenerator(t *testing.T) {
	Convey("Given no API key", t, func() {
		_, err := NewGenAIGenerator(context.Background(), "", "")
		So(err, ShouldEqual, ErrMissingAPIKey)
	})
}
