package main

import (
	"unicode"

	"github.com/fentz26/taskwtools/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	flagAll       bool
	flagOne       bool
	flagZero      bool
	flagExact     bool
	flagIDOnly    bool
	flagHeld      bool
	flagBlocked   bool
	flagIDStrings bool
	flagVerbose   bool
	excludeTags   []string
)

func addResolveFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&flagAll, "all", "a", false, "Return every matching task")
	f.BoolVarP(&flagOne, "one", "o", false, "Fail when more than one task matches")
	f.BoolVarP(&flagZero, "zero", "z", false, "Print a sentinel UUID instead of failing")
	f.BoolVarP(&flagExact, "exact", "x", false, "Match labels and projects exactly")
	f.BoolVarP(&flagIDOnly, "idonly", "n", false, "Do not search descriptions")
	f.BoolVar(&flagHeld, "held", false, "Only match waiting tasks")
	f.BoolVar(&flagBlocked, "blocked", false, "Only match blocked tasks")
	f.StringArrayVar(&excludeTags, "exclude-tag", nil, "Exclude tasks carrying tag")
	f.MarkHidden("exclude-tag")
}

// rewriteTagExclusions turns "-tag" arguments into --exclude-tag flags so
// that they survive flag parsing. A cluster made only of shorthands the
// target command registers ("-az") stays a flag, and everything after "--"
// is left alone; "-- -on" excludes a tag that reads as flags.
func rewriteTagExclusions(root *cobra.Command, args []string) []string {
	target, _, err := root.Find(args)
	if err != nil || target == nil {
		target = root
	}
	if target.DisableFlagParsing {
		return args
	}
	target.InitDefaultHelpFlag()

	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		if len(a) > 1 && a[0] == '-' && a[1] != '-' && !shorthandCluster(target, a[1:]) {
			out = append(out, "--exclude-tag="+a[1:])
			continue
		}
		out = append(out, a)
	}
	return out
}

func shorthandCluster(cmd *cobra.Command, s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || cmd.Flags().ShorthandLookup(string(r)) == nil {
			return false
		}
	}
	return true
}

// request builds a resolver request from positional arguments and the
// exclusion flags.
func request(args []string) resolve.Request {
	req := resolve.ParseArgs(args)
	req.Exclude = append(req.Exclude, excludeTags...)
	return req
}

// options returns the resolver options set by flags. Plural verbs always
// return every match.
func options(plural bool) resolve.Options {
	return resolve.Options{
		Multi:   flagAll || plural,
		One:     flagOne,
		Zero:    flagZero,
		Exact:   flagExact,
		IDOnly:  flagIDOnly,
		Held:    flagHeld,
		Blocked: flagBlocked,
	}
}
