package geoexport

import (
	"fmt"
	"io"
)

// WriteKML renders tracks and waypoints as a KML 2.2 document: one
// LineString Placemark per track, one Point Placemark per waypoint.
// Structure mirrors original_source/data2kml.py's preamble/postamble split,
// generalized from a single hardcoded track to many.
func WriteKML(w io.Writer, tracks [][]Trackpoint, waypoints []Waypoint) error {
	if err := writeKMLPreamble(w); err != nil {
		return err
	}

	for i, track := range tracks {
		if err := writeKMLTrack(w, i, track); err != nil {
			return err
		}
	}
	for _, wpt := range waypoints {
		if err := writeKMLWaypoint(w, wpt); err != nil {
			return err
		}
	}

	return writeKMLPostamble(w)
}

func writeKMLPreamble(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
			"<kml xmlns=\"http://www.opengis.net/kml/2.2\">\n"+
			"<Document>\n"+
			"    <name>mtklog track export</name>\n"+
			"    <Style id=\"trackLine\">\n"+
			"        <LineStyle>\n"+
			"            <color>ffb5c5ff</color>\n"+
			"            <width>5</width>\n"+
			"        </LineStyle>\n"+
			"    </Style>\n")
	return err
}

func writeKMLPostamble(w io.Writer) error {
	_, err := fmt.Fprintf(w, "</Document>\n</kml>\n")
	return err
}

func writeKMLTrack(w io.Writer, index int, points []Trackpoint) error {
	if len(points) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w,
		"    <Placemark>\n"+
			"        <name>Track %d</name>\n"+
			"        <styleUrl>#trackLine</styleUrl>\n"+
			"        <LineString>\n"+
			"            <altitudeMode>clampToGround</altitudeMode>\n"+
			"            <coordinates>\n", index+1); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "                %.6f,%.6f,%.2f\n", p.Longitude, p.Latitude, p.Elevation); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w,
		"            </coordinates>\n"+
			"        </LineString>\n"+
			"    </Placemark>\n")
	return err
}

func writeKMLWaypoint(w io.Writer, wpt Waypoint) error {
	name := wpt.Name
	if name == "" {
		name = "Waypoint"
	}
	if _, err := fmt.Fprintf(w,
		"    <Placemark>\n"+
			"        <name>%s</name>\n", xmlEscape(name)); err != nil {
		return err
	}
	if wpt.Comment != "" {
		if _, err := fmt.Fprintf(w, "        <description>%s</description>\n", xmlEscape(wpt.Comment)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w,
		"        <Point>\n"+
			"            <coordinates>%.6f,%.6f,%.2f</coordinates>\n"+
			"        </Point>\n"+
			"    </Placemark>\n",
		wpt.Longitude, wpt.Latitude, wpt.Elevation); err != nil {
		return err
	}
	return nil
}
