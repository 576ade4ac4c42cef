package geoexport

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGPX_TrackAndWaypoint(t *testing.T) {
	ts := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	tracks := [][]Trackpoint{
		{
			{Latitude: 1, Longitude: 2, HasElevation: true, Elevation: 10, Time: ts, Fix: "2d"},
			{Latitude: 1.1, Longitude: 2.1, Time: ts.Add(time.Second)},
		},
	}
	waypoints := []Waypoint{
		{Name: "Stop & Go", Latitude: 3, Longitude: 4, Time: ts, Comment: "a <note>"},
	}

	var sb strings.Builder
	err := WriteGPX(&sb, tracks, waypoints)
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "<gpx version=\"1.1\"")
	assert.Contains(t, out, "<trkpt lat=\"1.000000\" lon=\"2.000000\">")
	assert.Contains(t, out, "<ele>10.00</ele>")
	assert.Contains(t, out, "<fix>2d</fix>")
	assert.Contains(t, out, "<wpt lat=\"3.000000\" lon=\"4.000000\">")
	assert.Contains(t, out, "Stop &amp; Go")
	assert.Contains(t, out, "a &lt;note&gt;")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</gpx>"))
}

func TestWriteGPX_EmptyTrackSkipped(t *testing.T) {
	var sb strings.Builder
	err := WriteGPX(&sb, [][]Trackpoint{{}}, nil)
	require.NoError(t, err)
	assert.NotContains(t, sb.String(), "<trk>")
}

func TestXMLEscape(t *testing.T) {
	assert.Equal(t, "&quot;&apos;&lt;&gt;&amp;", xmlEscape(`"'<>&`))
}
