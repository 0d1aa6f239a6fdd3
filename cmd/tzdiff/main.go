package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dimensia/tzcore/archive"
	"github.com/dimensia/tzcore/provider"
	"github.com/dimensia/tzcore/registry"
	"github.com/dimensia/tzcore/zone"
)

var (
	regionFlag  = flag.String("region", "", "region id to compare, e.g. Europe/Paris")
	versionFlag = flag.String("version", "", "version id, or empty for the latest version valid now")
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
	if len(args) < 3 {
		return fmt.Errorf("Usage: tzdiff -region <id> [-version <id>] <archive A> <archive B> <epoch-seconds>...")
	}
	if *regionFlag == "" {
		return fmt.Errorf("-region is required")
	}

	rulesA, err := loadRules(args[0], *regionFlag, *versionFlag)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}
	rulesB, err := loadRules(args[1], *regionFlag, *versionFlag)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[1], err)
	}

	mismatches := 0
	for _, s := range args[2:] {
		epochSeconds, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing instant %q: %w", s, err)
		}
		offA, err := rulesA.OffsetAtInstant(epochSeconds)
		if err != nil {
			return fmt.Errorf("offset in A at %d: %w", epochSeconds, err)
		}
		offB, err := rulesB.OffsetAtInstant(epochSeconds)
		if err != nil {
			return fmt.Errorf("offset in B at %d: %w", epochSeconds, err)
		}
		if offA.Compare(offB) != 0 {
			mismatches++
			fmt.Printf("%s: A=%s B=%s\n", time.Unix(epochSeconds, 0).UTC().Format(time.RFC1123), offA, offB)
		}
	}

	if mismatches == 0 {
		fmt.Println("no differences")
	} else {
		fmt.Printf("%d differing instants\n", mismatches)
	}
	return nil
}

// loadRules reads one archive file and resolves the requested region
// (and, if given, version) through a fresh registry built just for
// that file.
func loadRules(path, region, version string) (zone.ZoneRules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := archive.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	r := registry.New()
	r.RegisterProvider(provider.New(a))

	id := registry.ID{GroupID: a.GroupID, RegionID: region, VersionID: version}
	return r.Resolve(id, time.Now().Unix())
}
