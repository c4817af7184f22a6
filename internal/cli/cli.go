package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atonixcorp/atonix-go/pkg/atonix"
	"github.com/spf13/pflag"
)

// ProgramName prefixes usage text and error messages.
const ProgramName = "atonixctl"

// Commands understood by atonixctl.
const (
	CmdInstances          = "instances"
	CmdClusters           = "clusters"
	CmdBuckets            = "buckets"
	CmdVPCs               = "vpcs"
	CmdGraphQL            = "graphql"
	CmdComplianceControls = "compliance-controls"
	CmdCollectEvidence    = "collect-evidence"
	CmdAttestation        = "attestation"
	CmdHistory            = "history"
)

var commandHelp = []struct{ name, help string }{
	{CmdInstances, "List instances"},
	{CmdClusters, "List Kubernetes clusters"},
	{CmdBuckets, "List storage buckets"},
	{CmdVPCs, "List VPCs"},
	{CmdGraphQL, "Run GraphQL query"},
	{CmdComplianceControls, "Get compliance control status"},
	{CmdCollectEvidence, "Collect evidence pack"},
	{CmdAttestation, "Create compliance attestation"},
	{CmdHistory, "Show recently journaled compliance runs"},
}

const dateLayout = "2006-01-02"

// ErrHelp is returned when the user asked for usage text.
var ErrHelp = pflag.ErrHelp

// Args is a parsed command line. Global holds the top-level flags so config
// loading can pick up the ones the user set.
type Args struct {
	Command string
	Global  *pflag.FlagSet

	Framework   string
	Query       string
	Variables   map[string]any
	PeriodStart string
	PeriodEnd   string
	Limit       int
}

// NewGlobalFlags declares the flags accepted before the command name.
func NewGlobalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(ProgramName, pflag.ContinueOnError)
	fs.String("base-url", "", "API base URL (default: ATONIX_BASE_URL or http://localhost:8000)")
	fs.String("token", "", "API token (default: ATONIX_TOKEN)")
	fs.StringP("output", "o", "", "Output format: json|yaml (default: ATONIX_OUTPUT or json)")
	fs.String("log-level", "", "Log level: debug|info|warn|error")
	fs.String("publishers-file", "", "YAML/JSON file listing sinks for evidence and attestation results")
	fs.String("journal-path", "", "Path of the local run journal")
	fs.SetInterspersed(false)
	return fs
}

// ParseArgs parses a slice of args and returns Args. It does not read os.Args.
func ParseArgs(args []string) (*Args, error) {
	global := NewGlobalFlags()
	global.SetOutput(&bytes.Buffer{})
	if err := global.Parse(args); err != nil {
		return nil, err
	}

	rest := global.Args()
	if len(rest) == 0 {
		return nil, errors.New("missing command")
	}

	out := &Args{Command: rest[0], Global: global}
	sub := pflag.NewFlagSet(ProgramName+" "+out.Command, pflag.ContinueOnError)
	sub.SetOutput(&bytes.Buffer{})

	var (
		framework   *string
		query       *string
		variables   *string
		periodStart *string
		periodEnd   *string
		limit       *int
	)

	switch out.Command {
	case CmdInstances, CmdClusters, CmdBuckets, CmdVPCs:
	case CmdGraphQL:
		query = sub.String("query", "", "GraphQL query string (required)")
		variables = sub.String("variables", "", "GraphQL variables as a JSON object")
	case CmdComplianceControls, CmdCollectEvidence:
		framework = sub.String("framework", atonix.DefaultFramework, "Framework: "+strings.Join(atonix.KnownFrameworks, "|"))
	case CmdAttestation:
		framework = sub.String("framework", atonix.DefaultFramework, "Framework: "+strings.Join(atonix.KnownFrameworks, "|"))
		periodStart = sub.String("period-start", "", "Period start, YYYY-MM-DD (required)")
		periodEnd = sub.String("period-end", "", "Period end, YYYY-MM-DD (required)")
	case CmdHistory:
		limit = sub.Int("limit", 20, "Number of runs to show")
	default:
		return nil, fmt.Errorf("unknown command %q", out.Command)
	}

	if err := sub.Parse(rest[1:]); err != nil {
		return nil, err
	}
	if sub.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments %v", out.Command, sub.Args())
	}

	if framework != nil {
		if !slices.Contains(atonix.KnownFrameworks, *framework) {
			return nil, fmt.Errorf("invalid --framework %q (choose from %s)", *framework, strings.Join(atonix.KnownFrameworks, ", "))
		}
		out.Framework = *framework
	}
	if query != nil {
		if strings.TrimSpace(*query) == "" {
			return nil, errors.New("graphql: --query is required")
		}
		out.Query = *query
		if strings.TrimSpace(*variables) != "" {
			if err := json.Unmarshal([]byte(*variables), &out.Variables); err != nil {
				return nil, fmt.Errorf("graphql: --variables must be a JSON object: %w", err)
			}
		}
	}
	if periodStart != nil {
		start, err := parseDate("period-start", *periodStart)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("period-end", *periodEnd)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, errors.New("attestation: --period-end is before --period-start")
		}
		out.PeriodStart = *periodStart
		out.PeriodEnd = *periodEnd
	}
	if limit != nil {
		if *limit <= 0 {
			return nil, errors.New("history: --limit must be positive")
		}
		out.Limit = *limit
	}

	return out, nil
}

func parseDate(flag, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("attestation: --%s is required", flag)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("attestation: --%s must be YYYY-MM-DD: %w", flag, err)
	}
	return t, nil
}

// NeedsToken reports whether cmd talks to the API.
func NeedsToken(cmd string) bool {
	return cmd != CmdHistory
}

// NeedsJournal reports whether cmd reads or writes the run journal.
func NeedsJournal(cmd string) bool {
	return cmd == CmdCollectEvidence || cmd == CmdAttestation || cmd == CmdHistory
}

// Usage renders the top-level help text.
func Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags] <command> [command flags]\n\nCommands:\n", ProgramName)
	for _, c := range commandHelp {
		fmt.Fprintf(&b, "  %-20s %s\n", c.name, c.help)
	}
	b.WriteString("\nFlags:\n")
	b.WriteString(NewGlobalFlags().FlagUsages())
	return b.String()
}
