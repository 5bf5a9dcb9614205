// internal/report/markdown.go
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/repolens/repolens/internal/model"
)

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# Repository Analysis Report\n\n")
	fmt.Fprintf(w, "**Account:** %s\n", report.Username)
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt)

	// Summary totals
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Repositories | %d |\n", report.Totals.Repos)
	fmt.Fprintf(w, "| Files | %d |\n", report.Totals.Files)
	fmt.Fprintf(w, "| Lines of code | %d |\n", report.Totals.LOC)
	fmt.Fprintf(w, "| Excluded files | %d |\n", report.Totals.ExcludedFiles)
	fmt.Fprintf(w, "| Active repositories | %d |\n", report.Totals.Active)
	fmt.Fprintf(w, "| Anomalies | %d |\n\n", report.Totals.Anomalies)

	// By language, largest first
	fmt.Fprintf(w, "## Languages\n\n")
	fmt.Fprintf(w, "| Language | Lines |\n")
	fmt.Fprintf(w, "|----------|------:|\n")
	for _, lang := range sortedLanguages(report.ByLanguage) {
		fmt.Fprintf(w, "| %s | %d |\n", lang, report.ByLanguage[lang])
	}
	fmt.Fprintln(w)

	// Per repository
	fmt.Fprintf(w, "## Repositories\n\n")
	fmt.Fprintf(w, "| Repository | Language | Files | LOC | Active | Maint. | Pop. | Quality | Docs |\n")
	fmt.Fprintf(w, "|------------|----------|------:|----:|:------:|------:|-----:|--------:|-----:|\n")
	for _, s := range report.Repositories {
		active := "no"
		if s.Active {
			active = "yes"
		}
		fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %.0f | %.0f | %.0f | %.0f |\n",
			s.Name, s.PrimaryLanguage, s.TotalFiles, s.TotalLOC, active,
			s.MaintenanceScore, s.PopularityScore, s.CodeQualityScore, s.DocumentationScore)
	}
	fmt.Fprintln(w)

	// Anomalies
	anomalous := false
	for _, s := range report.Repositories {
		if len(s.Anomalies) > 0 {
			anomalous = true
			break
		}
	}
	if anomalous {
		fmt.Fprintf(w, "## Anomalies\n\n")
		for _, s := range report.Repositories {
			for _, a := range s.Anomalies {
				fmt.Fprintf(w, "- **%s**: %s\n", s.Name, a)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func sortedLanguages(byLanguage map[string]int) []string {
	langs := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if byLanguage[langs[i]] != byLanguage[langs[j]] {
			return byLanguage[langs[i]] > byLanguage[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}
