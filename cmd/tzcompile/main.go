// Command tzcompile reads TZDB text files (and, optionally, a
// leap-second file, validated but not embedded in the archive) and
// writes a single binary zone-rules archive covering every zone they
// define, stamped with one version id. With -fetch it downloads the
// latest release straight from the IANA data server instead of reading
// local files.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dimensia/tzcore/archive"
	"github.com/dimensia/tzcore/tzcompile"
	"github.com/dimensia/tzcore/tzdata"
	"github.com/dimensia/tzcore/tzdb/ianadist"
	"github.com/dimensia/tzcore/utctime"
	"github.com/dimensia/tzcore/zone"
)

var (
	groupFlag       = flag.String("group", "iana", "group id to stamp the archive with")
	versionFlag     = flag.String("version", "", "version id for this TZDB release (defaults to the fetched release's own version with -fetch)")
	outFlag         = flag.String("o", "", "output archive path (required)")
	leapSecondsFlag = flag.String("leapseconds", "", "optional local leap-second file to validate (not embedded in the archive)")
	fetchFlag       = flag.Bool("fetch", false, "download the latest tzdb release from the IANA data server instead of reading local files")
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	args := flag.Args()
	if !*fetchFlag && len(args) == 0 {
		return fmt.Errorf("Usage: tzcompile -version <id> -o <out file> [-group <id>] [-leapseconds <file>] <tzdata file>...\n   or: tzcompile -fetch -o <out file> [-group <id>]")
	}
	if *outFlag == "" {
		return fmt.Errorf("-o is required")
	}

	var (
		merged       tzdata.File
		version      = *versionFlag
		leapSecond   []byte
		leapFromFile = *leapSecondsFlag != ""
	)

	if *fetchFlag {
		release, _, err := ianadist.Latest(context.Background(), "")
		if err != nil {
			return fmt.Errorf("fetching latest tzdb release: %w", err)
		}
		if release == nil {
			return fmt.Errorf("fetching latest tzdb release: server reported no new release")
		}
		fmt.Fprintf(os.Stderr, "fetched tzdb release %s (%d data files)\n", release.Version, len(release.DataFiles))
		for name, data := range release.DataFiles {
			parsed, err := tzdata.Parse(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("parsing fetched file %q: %w", name, err)
			}
			merged.RuleLines = append(merged.RuleLines, parsed.RuleLines...)
			merged.ZoneLines = append(merged.ZoneLines, parsed.ZoneLines...)
			merged.LinkLines = append(merged.LinkLines, parsed.LinkLines...)
		}
		if version == "" {
			version = release.Version
		}
		leapSecond = release.LeapSecondsFile
	} else {
		var err error
		merged, err = parseAll(args)
		if err != nil {
			return err
		}
	}

	if version == "" {
		return fmt.Errorf("-version is required")
	}

	if leapFromFile {
		f, err := os.Open(*leapSecondsFlag)
		if err != nil {
			return fmt.Errorf("opening leap-second file: %w", err)
		}
		_, err = utctime.ParseLeapSecondFile(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing leap-second file: %w", err)
		}
	} else if len(leapSecond) > 0 {
		if _, err := utctime.ParseLeapSecondFile(bytes.NewReader(leapSecond)); err != nil {
			return fmt.Errorf("parsing fetched leap-second file: %w", err)
		}
	}

	compiled, err := tzcompile.Compile(merged)
	if err != nil {
		return fmt.Errorf("compiling zone rules: %w", err)
	}
	fmt.Fprintf(os.Stderr, "compiled %d zones for version %s\n", len(compiled), version)

	a, err := archive.Build(*groupFlag, map[string]map[string]*zone.StandardZoneRules{
		version: compiled,
	})
	if err != nil {
		return fmt.Errorf("building archive: %w", err)
	}

	out, err := os.Create(*outFlag)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *outFlag, err)
	}
	defer out.Close()

	if err := archive.Encode(out, a); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return nil
}

// parseAll reads and concatenates every TZDB text file named on the
// command line into one tzdata.File, the way a real TZDB release
// splits its Zone/Rule/Link lines across several files (northamerica,
// europe, backward, ...).
func parseAll(paths []string) (tzdata.File, error) {
	var merged tzdata.File
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return tzdata.File{}, fmt.Errorf("opening %s: %w", path, err)
		}
		parsed, err := tzdata.Parse(f)
		f.Close()
		if err != nil {
			return tzdata.File{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		merged.RuleLines = append(merged.RuleLines, parsed.RuleLines...)
		merged.ZoneLines = append(merged.ZoneLines, parsed.ZoneLines...)
		merged.LinkLines = append(merged.LinkLines, parsed.LinkLines...)
	}
	return merged, nil
}
