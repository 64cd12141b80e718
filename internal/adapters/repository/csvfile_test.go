package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCSVFile(t *testing.T) {
	Convey("Given a CSV persister", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "leaderboard.csv")
		f := NewCSVFile(path)

		Convey("Then a missing file loads as an empty table", func() {
			table, err := f.Load(ctx)
			So(err, ShouldBeNil)
			So(table, ShouldBeEmpty)
		})

		Convey("When entries are saved", func() {
			So(f.Save(ctx, []Entry{{Player: "Alice", Score: 7}, {Player: "O'Brien, Pat", Score: 3}}), ShouldBeNil)

			Convey("Then the file has a header and base-10 rows", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, "Player,Score\nAlice,7\n\"O'Brien, Pat\",3\n")
			})

			Convey("Then loading round-trips exactly", func() {
				table, err := f.Load(ctx)
				So(err, ShouldBeNil)
				So(table, ShouldResemble, map[string]int{"Alice": 7, "O'Brien, Pat": 3})
			})

			Convey("Then no temp files are left behind", func() {
				files, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(files, ShouldHaveLength, 1)
			})
		})

		Convey("Then a file without a header is still read", func() {
			So(os.WriteFile(path, []byte("Bob,8\n"), 0o600), ShouldBeNil)
			table, err := f.Load(ctx)
			So(err, ShouldBeNil)
			So(table["Bob"], ShouldEqual, 8)
		})

		Convey("Then hand-edited names are normalized", func() {
			So(os.WriteFile(path, []byte("Player,Score\n  Bob ,3\nBob,2\n"), 0o600), ShouldBeNil)
			table, err := f.Load(ctx)
			So(err, ShouldBeNil)
			So(table, ShouldResemble, map[string]int{"Bob": 5})
		})

		Convey("Then negative scores and blank names are corrupt", func() {
			So(os.WriteFile(path, []byte("Player,Score\nBob,-3\n"), 0o600), ShouldBeNil)
			_, err := f.Load(ctx)
			So(err, ShouldWrap, ErrCorruptTable)

			So(os.WriteFile(path, []byte("Player,Score\n  ,3\n"), 0o600), ShouldBeNil)
			_, err = f.Load(ctx)
			So(err, ShouldWrap, ErrCorruptTable)
		})

		Convey("Then rows with the wrong width are corrupt", func() {
			So(os.WriteFile(path, []byte("Player,Score\nBob\n"), 0o600), ShouldBeNil)
			_, err := f.Load(ctx)
			So(err, ShouldWrap, ErrCorruptTable)
		})
	})
}
