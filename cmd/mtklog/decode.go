package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mtklog/btq1300st/internal/dumpmeta"
	"github.com/mtklog/btq1300st/internal/geoexport"
	"github.com/mtklog/btq1300st/internal/logdecode"
)

func runDecode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	in := fs.String("in", "", "previously-dumped raw flash image")
	gpxOut := fs.String("gpx", "", "GPX output file")
	kmlOut := fs.String("kml", "", "KML output file")
	tracks := fs.Bool("tracks", true, "include track points in output")
	waypoints := fs.Bool("waypoints", true, "include waypoints in output")
	lenient := fs.Bool("lenient", false, "skip records with a bad checksum instead of aborting")
	if err := fs.Parse(args); err != nil {
		return 10
	}

	if *in == "" {
		fmt.Fprintln(os.Stderr, "mtklog decode: -in is required")
		return 10
	}
	if *gpxOut == "" && *kmlOut == "" {
		fmt.Fprintln(os.Stderr, "mtklog decode: at least one of -gpx or -kml is required")
		return 10
	}

	image, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog decode: reading %s: %v\n", *in, err)
		return 10
	}
	meta, err := dumpmeta.Read(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog decode: reading sidecar metadata for %s: %v\n", *in, err)
		return 10
	}

	policy := logdecode.DecodePolicyStrict
	if *lenient {
		policy = logdecode.DecodePolicyLenient
	}

	scanner := logdecode.NewSectorScanner(image, meta.RecordCount, logdecode.LogFormat(meta.LogFormat), policy, nil, nil)

	var curTrack []geoexport.Trackpoint
	var allTracks [][]geoexport.Trackpoint
	var wpts []geoexport.Waypoint

	err = scanner.Scan(func(e logdecode.Emitted) {
		if e.SegmentBreak && len(curTrack) > 0 {
			allTracks = append(allTracks, curTrack)
			curTrack = nil
		}
		switch e.Kind {
		case logdecode.EmittedTrackpoint:
			if *tracks {
				curTrack = append(curTrack, toTrackpoint(e.Record))
			}
		case logdecode.EmittedWaypoint:
			if *waypoints {
				wpts = append(wpts, toWaypoint(e.Record))
			}
		}
	})
	if len(curTrack) > 0 {
		allTracks = append(allTracks, curTrack)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mtklog decode: scanning %s: %v\n", *in, err)
		return 10
	}

	if *gpxOut != "" {
		if err := writeGPXFile(*gpxOut, allTracks, wpts); err != nil {
			fmt.Fprintf(os.Stderr, "mtklog decode: writing GPX to %s: %v\n", *gpxOut, err)
			return 10
		}
	}
	if *kmlOut != "" {
		if err := writeKMLFile(*kmlOut, allTracks, wpts); err != nil {
			fmt.Fprintf(os.Stderr, "mtklog decode: writing KML to %s: %v\n", *kmlOut, err)
			return 10
		}
	}

	fmt.Printf("decoded %d track segments, %d waypoints\n", len(allTracks), len(wpts))
	return 0
}

func toTrackpoint(r logdecode.Record) geoexport.Trackpoint {
	tp := geoexport.Trackpoint{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Time:      time.Unix(int64(r.UTC), 0).UTC(),
		Fix:       r.Valid.String(),
	}
	if r.Height != 0 {
		tp.Elevation = float64(r.Height)
		tp.HasElevation = true
	}
	if r.Speed != 0 {
		tp.Speed = float64(r.Speed)
		tp.HasSpeed = true
	}
	return tp
}

func toWaypoint(r logdecode.Record) geoexport.Waypoint {
	wp := geoexport.Waypoint{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Time:      time.Unix(int64(r.UTC), 0).UTC(),
	}
	if r.Height != 0 {
		wp.Elevation = float64(r.Height)
		wp.HasElevation = true
	}
	return wp
}

func writeGPXFile(path string, tracks [][]geoexport.Trackpoint, wpts []geoexport.Waypoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return geoexport.WriteGPX(f, tracks, wpts)
}

func writeKMLFile(path string, tracks [][]geoexport.Trackpoint, wpts []geoexport.Waypoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return geoexport.WriteKML(f, tracks, wpts)
}
