package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// outputFormat reads the persistent --output flag, defaulting to text.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch strings.ToLower(format) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
}

// render writes value in the requested format. Text output is delegated to text.
func render(w io.Writer, format string, value interface{}, text func(w io.Writer)) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		text(w)
		return nil
	}
}

func projectArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func writeAnalysis(w io.Writer, result *entities.AnalysisResult) {
	counts := result.Counts
	fmt.Fprintf(w, "Project: %s\n", result.ProjectPath)
	fmt.Fprintf(w, "Dependencies: %d (direct %d, dev %d, peer %d, optional %d)\n",
		counts.Total, counts.Direct, counts.Dev, counts.Peer, counts.Optional)
	fmt.Fprintf(w, "Security score: %d/100  Health score: %d/100\n", result.SecurityScore, result.HealthScore)

	if len(result.Vulnerabilities) > 0 {
		fmt.Fprintf(w, "\nVulnerabilities (%d):\n", len(result.Vulnerabilities))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, vuln := range result.Vulnerabilities {
			fix := "no fix"
			if vuln.PatchedRange != "" {
				fix = "fix " + vuln.PatchedRange
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", vuln.Severity, vuln.Dependency, vuln.ID, vuln.Title, fix)
		}
		_ = tw.Flush()
	}

	if len(result.Outdated) > 0 {
		fmt.Fprintf(w, "\nOutdated (%d):\n", len(result.Outdated))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, pkg := range result.Outdated {
			fmt.Fprintf(tw, "  %s\t%s\t->\t%s\n", pkg.Name, pkg.Current, pkg.Latest)
		}
		_ = tw.Flush()
	}

	if len(result.Unused) > 0 {
		fmt.Fprintf(w, "\nUnused: %s\n", strings.Join(result.Unused, ", "))
	}
	if len(result.Duplicates) > 0 {
		fmt.Fprintf(w, "\nDuplicates (%d):\n", len(result.Duplicates))
		for _, group := range result.Duplicates {
			fmt.Fprintf(w, "  %s: %s\n", group.Name, strings.Join(group.Versions, ", "))
		}
	}
	if len(result.LicenseIssues) > 0 {
		fmt.Fprintf(w, "\nLicense issues (%d):\n", len(result.LicenseIssues))
		for _, issue := range result.LicenseIssues {
			fmt.Fprintf(w, "  %s: %s\n", issue.Dependency, issue.Issue)
		}
	}

	writeRecommendations(w, result.Recommendations)
	writeWarnings(w, result.Warnings)
}

func writeRecommendations(w io.Writer, recommendations []entities.Recommendation) {
	if len(recommendations) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRecommendations (%d):\n", len(recommendations))
	for _, rec := range recommendations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", rec.Priority, rec.Category, rec.Action)
	}
}

func writeWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nWarnings:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
}

func writeCandidates(w io.Writer, candidates []entities.UpdateCandidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No updates available")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tCURRENT\tTARGET\tCLASS\tRISK\tNOTES")
	for _, candidate := range candidates {
		var notes []string
		if candidate.SecurityFix {
			notes = append(notes, "security fix")
		}
		if candidate.Breaking {
			notes = append(notes, "breaking")
		}
		if len(candidate.Impact.AffectedDependents) > 0 {
			notes = append(notes, "used by "+strings.Join(candidate.Impact.AffectedDependents, ", "))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			candidate.Name, candidate.CurrentVersion, candidate.TargetVersion,
			candidate.Class, candidate.Risk, strings.Join(notes, "; "))
	}
	_ = tw.Flush()
}

func writeUpdateResult(w io.Writer, result entities.UpdateResult) {
	if result.TransactionID != "" {
		fmt.Fprintf(w, "Transaction: %s\n", result.TransactionID)
	}
	fmt.Fprintf(w, "State: %s\n", result.State)
	fmt.Fprintf(w, "%s\n", result.Message)
	if len(result.UpdatedPackages) > 0 {
		fmt.Fprintf(w, "Updated: %s\n", strings.Join(result.UpdatedPackages, ", "))
	}
	if result.BackupPath != "" {
		fmt.Fprintf(w, "Backup: %s\n", result.BackupPath)
	}
	for _, conflict := range result.Conflicts {
		fmt.Fprintf(w, "Conflict: %s: %s\n", conflict.Name, conflict.Issue)
	}
	for _, failure := range result.Errors {
		fmt.Fprintf(w, "Error: %s\n", failure)
	}
	writeWarnings(w, result.Warnings)
}

func writeTree(w io.Writer, node *entities.DependencyTreeNode, prefix string, last, root bool) {
	if node == nil {
		return
	}
	label := node.Name
	if node.Version != "" {
		label += "@" + node.Version
	}
	childPrefix := prefix
	if root {
		fmt.Fprintln(w, label)
	} else {
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, label)
		childPrefix = prefix + next
	}
	for i, child := range node.Dependencies {
		writeTree(w, child, childPrefix, i == len(node.Dependencies)-1, false)
	}
}
