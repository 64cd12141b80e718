package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// backends opens a fresh store of every kind rooted in dir.
func backends(t *testing.T, dir string) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		BackendMemory: func() Store { return NewTreapStore() },
		BackendCSV: func() Store {
			return NewTreapStore(WithPersister(NewCSVFile(filepath.Join(dir, "leaderboard.csv"))), WithBackendLabel(BackendCSV))
		},
		BackendSQLite: func() Store {
			s, err := NewSQLiteStore(filepath.Join(dir, "leaderboard.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name := range backends(t, t.TempDir()) {
		Convey("Given a fresh "+name+" store", t, func() {
			ctx := context.Background()
			open := backends(t, t.TempDir())[name]
			s := open()
			So(s.Load(ctx), ShouldBeNil)
			Reset(func() { _ = s.Close() })

			Convey("Then Display is empty", func() {
				entries, err := s.Display(ctx)
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
				So(s.Count(ctx), ShouldEqual, 0)
			})

			Convey("When Bob scores 5 then 3", func() {
				_, err := s.Update(ctx, "Bob", 5)
				So(err, ShouldBeNil)
				e, err := s.Update(ctx, "Bob", 3)
				So(err, ShouldBeNil)

				Convey("Then Bob holds a single row worth 8", func() {
					So(e.Score, ShouldEqual, 8)
					entries, _ := s.Display(ctx)
					So(entries, ShouldHaveLength, 1)
					So(entries[0].Player, ShouldEqual, "Bob")
					So(entries[0].Score, ShouldEqual, 8)
				})

				Convey("And a negative delta leaves the score unchanged", func() {
					e, err := s.Update(ctx, "Bob", -5)
					So(err, ShouldBeNil)
					So(e.Score, ShouldEqual, 8)
				})
			})

			Convey("When several players score", func() {
				for _, u := range []struct {
					p string
					d int
				}{{"Zed", 3}, {"Amy", 9}, {"Kim", 3}, {"Lou", 6}} {
					_, err := s.Update(ctx, u.p, u.d)
					So(err, ShouldBeNil)
				}

				Convey("Then Display is sorted by score desc then name", func() {
					entries, err := s.Display(ctx)
					So(err, ShouldBeNil)
					So(entries, ShouldResemble, []Entry{
						{1, "Amy", 9}, {2, "Lou", 6}, {3, "Kim", 3}, {3, "Zed", 3},
					})
				})

				Convey("Then TopN and Rank agree with Display", func() {
					top, err := s.TopN(ctx, 2)
					So(err, ShouldBeNil)
					So(top, ShouldResemble, []Entry{{1, "Amy", 9}, {2, "Lou", 6}})

					zed, err := s.Rank(ctx, "Zed")
					So(err, ShouldBeNil)
					So(zed, ShouldResemble, Entry{3, "Zed", 3})

					_, err = s.Rank(ctx, "nobody")
					So(err, ShouldWrap, ErrNotFound)
					So(s.Count(ctx), ShouldEqual, 4)
				})
			})

			Convey("Then invalid input is rejected", func() {
				_, err := s.TopN(ctx, 0)
				So(err, ShouldWrap, ErrInvalidLimit)
				_, err = s.Update(ctx, "", 1)
				So(err, ShouldWrap, ErrInvalidPlayer)
			})
		})
	}
}

func TestStoreDurability(t *testing.T) {
	for _, name := range []string{BackendCSV, BackendSQLite} {
		Convey("Given a "+name+" store on disk", t, func() {
			ctx := context.Background()
			open := backends(t, t.TempDir())[name]
			s := open()
			So(s.Load(ctx), ShouldBeNil)

			Convey("When Alice scores 7 and the store is reopened", func() {
				_, err := s.Update(ctx, "Alice", 7)
				So(err, ShouldBeNil)
				So(s.Close(), ShouldBeNil)

				reopened := open()
				So(reopened.Load(ctx), ShouldBeNil)
				defer reopened.Close()

				Convey("Then Alice's score survives", func() {
					e, err := reopened.Rank(ctx, "Alice")
					So(err, ShouldBeNil)
					So(e.Score, ShouldEqual, 7)
				})

				Convey("Then the reloaded board holds exactly her row", func() {
					rows, err := reopened.Display(ctx)
					So(err, ShouldBeNil)
					So(rows, ShouldResemble, []Entry{{Rank: 1, Player: "Alice", Score: 7}})
				})
			})
		})
	}
}

func TestOpen(t *testing.T) {
	Convey("Given backend names", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("Then known backends open and load", func() {
			for _, b := range []string{BackendMemory, BackendCSV, BackendSQLite} {
				s, err := Open(ctx, b, filepath.Join(dir, "board."+b))
				So(err, ShouldBeNil)
				So(s.Close(), ShouldBeNil)
			}
		})

		Convey("Then an unknown backend is rejected", func() {
			_, err := Open(ctx, "redis", "")
			So(err, ShouldWrap, ErrUnknownBackend)
		})

		Convey("Then a corrupt CSV file fails to load", func() {
			path := filepath.Join(dir, "bad.csv")
			So(os.WriteFile(path, []byte("Player,Score\nAlice,seven\n"), 0o600), ShouldBeNil)
			_, err := Open(ctx, BackendCSV, path)
			So(err, ShouldWrap, ErrCorruptTable)
		})
	})
}
