package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/okian/sinfonia/internal/adapters/report"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
	. "github.com/smartystreets/goconvey/convey"
)

func staffedConcert() *concert.Concert {
	houses := []*performer.House{
		performer.NewHouse("Brian May", []string{"electric guitar"}, []string{"Queen"}),
	}
	candidates := []*performer.External{
		performer.NewExternal("Annie Lennox", []string{"lead vocal"}, []string{"Eurythmics"}, 100, 1),
	}
	setlist := []*song.Song{
		song.New("Under Pressure", []string{"lead vocal", "electric guitar"}),
		song.New("Drum Solo", []string{"drums"}),
	}
	c := concert.New(setlist, houses, candidates)
	c.HireForShow()
	return c
}

func TestBuild(t *testing.T) {
	Convey("Given a concert with one complete and one incomplete song", t, func() {
		r := report.Build(staffedConcert())

		Convey("Then the report mirrors the staffing state", func() {
			So(r.TotalCost, ShouldEqual, 100.0)
			So(r.Songs, ShouldHaveLength, 2)

			So(r.Songs[0].Complete, ShouldBeTrue)
			So(r.Songs[0].Missing, ShouldBeNil)
			So(r.Songs[0].Assigned, ShouldResemble, []report.Assignment{
				{Artist: "Annie Lennox", Role: "lead vocal", PricePaid: 100},
			})

			So(r.Songs[1].Complete, ShouldBeFalse)
			So(r.Songs[1].Missing, ShouldResemble, map[string]int{"drums": 1})
			So(r.Songs[1].Assigned, ShouldBeEmpty)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given a built report", t, func() {
		r := report.Build(staffedConcert())

		Convey("When encoding as JSON", func() {
			var buf bytes.Buffer
			So(report.Encode(&buf, r, report.FormatJSON), ShouldBeNil)

			var back report.Report
			So(json.Unmarshal(buf.Bytes(), &back), ShouldBeNil)
			So(back.TotalCost, ShouldEqual, 100.0)
			So(buf.String(), ShouldContainSubstring, `"price_paid": 100`)
			So(buf.String(), ShouldNotContainSubstring, `"missing": null`)
		})

		Convey("When encoding as YAML", func() {
			var buf bytes.Buffer
			So(report.Encode(&buf, r, report.FormatYAML), ShouldBeNil)

			var back report.Report
			So(yaml.Unmarshal(buf.Bytes(), &back), ShouldBeNil)
			So(back.Songs[1].Missing, ShouldResemble, map[string]int{"drums": 1})
		})

		Convey("When the format is unknown", func() {
			err := report.Encode(&bytes.Buffer{}, r, report.Format("xml"))
			So(errors.Is(err, report.ErrExport), ShouldBeTrue)
		})
	})
}

func TestWriteFile(t *testing.T) {
	Convey("Given a concert and a target directory", t, func() {
		c := staffedConcert()
		dir := t.TempDir()

		Convey("When writing a .json path", func() {
			path := filepath.Join(dir, "report.json")
			So(report.WriteFile(path, c), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "Under Pressure")
		})

		Convey("When the extension is unsupported", func() {
			err := report.WriteFile(filepath.Join(dir, "out.txt"), c)
			So(errors.Is(err, report.ErrExport), ShouldBeTrue)
		})

		Convey("When the directory does not exist", func() {
			err := report.WriteFile(filepath.Join(dir, "missing", "out.yaml"), c)
			So(errors.Is(err, report.ErrExport), ShouldBeTrue)
		})
	})
}
