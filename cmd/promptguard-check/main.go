package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"promptguard/internal/core/detector"
	"promptguard/internal/core/rulepack"
	"promptguard/internal/platform/logger"
)

func main() {
	var (
		rulesFile  = flag.String("rules", "", "rules.json override (default: embedded pack)")
		policyFile = flag.String("policy", "", "TOML policy overrides")
		threshold  = flag.Int("threshold", 0, "block threshold override (0 keeps pack default)")
		fuzzy      = flag.Int("fuzzy", 0, "max edit distance for approximate word matching")
		asJSON     = flag.Bool("json", false, "emit one JSON decision per line")
	)
	flag.Parse()

	l := logger.Get()

	var (
		pack *rulepack.Pack
		err  error
	)
	if *rulesFile != "" {
		pack, err = rulepack.LoadFile(*rulesFile)
	} else {
		pack, err = rulepack.Load()
	}
	if err != nil {
		l.Fatal().Err(err).Msg("rule pack load failed")
	}

	opts := detector.Options{BlockThreshold: *threshold, MaxEditDistance: *fuzzy}
	if *policyFile != "" {
		pol, err := rulepack.LoadPolicy(*policyFile)
		if err != nil {
			l.Fatal().Err(err).Msg("policy load failed")
		}
		if pack, err = pack.Apply(pol); err != nil {
			l.Fatal().Err(err).Msg("policy apply failed")
		}
		if opts.BlockThreshold == 0 {
			opts.BlockThreshold = pol.Scorer.BlockThreshold
		}
		if opts.MaxEditDistance == 0 {
			opts.MaxEditDistance = pol.Matcher.MaxEditDistance
		}
	}

	cls := detector.NewWithOptions(pack, opts)

	prompts := flag.Args()
	worst := detector.ActionAllow

	screen := func(text string) {
		d := cls.Classify(text)
		if d.Action.Rank() > worst.Rank() {
			worst = d.Action
		}
		emit := printText
		if *asJSON {
			emit = printJSON
		}
		emit(text, d)
	}

	if len(prompts) > 0 {
		for _, p := range prompts {
			screen(p)
		}
	} else {
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			screen(line)
		}
		if err := sc.Err(); err != nil {
			l.Fatal().Err(err).Msg("stdin read failed")
		}
	}

	// exit code mirrors the worst decision so shell pipelines can gate on it
	os.Exit(worst.Rank())
}

func printText(text string, d detector.Decision) {
	names := make([]string, 0, len(d.BucketsHit))
	for name := range d.BucketsHit {
		names = append(names, name)
	}
	sort.Strings(names)
	buckets := "-"
	if len(names) > 0 {
		buckets = strings.Join(names, ",")
	}
	fmt.Printf("%-8s score=%-3d buckets=%s\t%s\n", d.Action, d.Score, buckets, text)
}

func printJSON(text string, d detector.Decision) {
	out := struct {
		Text string `json:"text"`
		detector.Decision
	}{Text: text, Decision: d}
	b, _ := json.Marshal(out)
	fmt.Println(string(b))
}
