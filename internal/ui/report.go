package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nixdiff/nixdiff/store"
)

// ReportData is everything the diff report needs, already sorted by the
// caller. This is a pure data model with no diffing logic.
type ReportData struct {
	PackageDiffs []store.PackageDiff
	GlobalDiffs  []store.StoreDiff
	Source       string
}

// RenderDiffReport prints the line-oriented diff report: per-package changes
// first, then the shared dependency section.
func RenderDiffReport(data *ReportData) {
	fmt.Printf("%s package update(s)\n\n", Colors.Blue("%d", len(data.PackageDiffs)))

	for _, diff := range data.PackageDiffs {
		renderPackageDiff(diff)
	}

	fmt.Printf("\n%s global dependency update(s)\n\n", Colors.Blue("%d", len(data.GlobalDiffs)))

	for _, diff := range data.GlobalDiffs {
		fmt.Printf("%s: %s\n", Colors.Blue("%s", displayName(diff)), formatVersionChange(diff))
	}
}

func renderPackageDiff(diff store.PackageDiff) {
	if diff.Pkg != nil {
		fmt.Printf("%s: %s\n", Colors.Blue("%s", diff.Name), formatVersionChange(*diff.Pkg))
	} else {
		fmt.Printf("%s\n", Colors.Blue("%s", diff.Name))
	}

	for _, dep := range diff.Deps {
		fmt.Printf("%s %s: %s\n", Colors.Yellow("^"), Colors.Blue("%s", displayName(dep)), formatVersionChange(dep))
	}
}

// RenderDiffTable prints the diff as a summary table instead of lines.
func RenderDiffTable(data *ReportData) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Package", "From", "To", "Dep changes"})

	for _, diff := range data.PackageDiffs {
		from, to := "", ""
		if diff.Pkg != nil {
			from, to = diff.Pkg.VerFrom, diff.Pkg.VerTo
		}

		t.AppendRow(table.Row{diff.Name, from, to, len(diff.Deps)})
	}

	if len(data.GlobalDiffs) > 0 {
		t.AppendSeparator()
		for _, diff := range data.GlobalDiffs {
			t.AppendRow(table.Row{displayName(diff) + " (shared)", diff.VerFrom, diff.VerTo, ""})
		}
	}

	fmt.Println(t.Render())
}

func displayName(diff store.StoreDiff) string {
	if diff.Suffix == "" {
		return diff.Name
	}

	return diff.Name + store.KeySeparator + diff.Suffix
}

// formatVersionChange renders "old -> new" with the characters of the new
// version that differ from the old one highlighted, and a marker when the
// change is a semver downgrade.
func formatVersionChange(diff store.StoreDiff) string {
	change := fmt.Sprintf("%s -> %s",
		Colors.Red("%s", diff.VerFrom),
		highlightChangedChars(diff.VerFrom, diff.VerTo))

	if isDowngrade(diff.VerFrom, diff.VerTo) {
		change += Colors.Yellow(" (downgrade)")
	}

	return change
}

// highlightChangedChars colors the new version green, emphasizing each
// character that differs from the old version at the same position.
func highlightChangedChars(from, to string) string {
	var result strings.Builder
	fromRunes := []rune(from)

	for i, toRune := range []rune(to) {
		s := string(toRune)

		if i < len(fromRunes) && fromRunes[i] == toRune {
			result.WriteString(Colors.Green("%s", s))
			continue
		}

		result.WriteString(Colors.Highlighted("%s", s))
	}

	return result.String()
}

// strictSemver gates the downgrade marker to plain X.Y.Z versions. The
// semver library coerces looser forms (dates like "2016-08-26" become
// 2016.0.0 with a prerelease), which would flag spurious downgrades.
var strictSemver = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// isDowngrade reports whether both versions are strict semver and the new
// one is lower. Purely cosmetic; the diff itself never orders versions.
func isDowngrade(from, to string) bool {
	if !strictSemver.MatchString(from) || !strictSemver.MatchString(to) {
		return false
	}

	fromVer, err := semver.NewVersion(from)
	if err != nil {
		return false
	}

	toVer, err := semver.NewVersion(to)
	if err != nil {
		return false
	}

	return toVer.LessThan(fromVer)
}
