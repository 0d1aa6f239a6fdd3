package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dimensia/tzcore/archive"
)

var printTransitionsFlag = flag.Bool("t", false, "print each rule's first transition after the Unix epoch in human readable form")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: tzinfo <archive file>")
		os.Exit(1)
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("reading file:", err)
		os.Exit(1)
	}

	a, err := archive.Decode(bytes.NewReader(b))
	if err != nil {
		fmt.Println("decoding:", err)
		os.Exit(1)
	}

	printHeader(a)
	printVersions(a)
	if *printTransitionsFlag {
		printRules(a)
	}
}

func printHeader(a archive.Archive) {
	fmt.Println("Header")
	fmt.Println("  version  =", archive.Version)
	fmt.Println("  group_id =", a.GroupID)
	fmt.Println("  versions =", len(a.Versions))
	fmt.Println("  regions  =", len(a.Regions))
	fmt.Println("  rules    =", len(a.RawRules))
	fmt.Println()
}

func printVersions(a archive.Archive) {
	for _, v := range a.Versions {
		regions := a.RegionsForVersion(v)
		fmt.Printf("Version %s (%d regions)\n", v, len(regions))
		for _, region := range regions {
			idx, _ := a.RuleIndexFor(v, region)
			fmt.Printf("  %s => rule %d\n", region, idx)
		}
	}
	fmt.Println()
}

func printRules(a archive.Archive) {
	for i := range a.RawRules {
		idx := archive.RuleIndex(i)
		rules, err := a.DecodeRuleAt(idx)
		if err != nil {
			fmt.Printf("rule %d: decode error: %v\n", idx, err)
			continue
		}
		fmt.Printf("Rule %d\n", idx)
		next, ok, err := rules.NextTransition(0)
		if err != nil {
			fmt.Printf("  NextTransition error: %v\n", err)
			continue
		}
		if !ok {
			fmt.Println("  no transitions after the epoch")
			continue
		}
		epoch := next.InstantEpochSeconds()
		fmt.Printf("  first transition after epoch: %s (%s -> %s)\n",
			time.Unix(epoch, 0).UTC().Format(time.RFC1123), next.OffsetBefore(), next.OffsetAfter())
	}
	fmt.Println()
}
