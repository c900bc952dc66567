// Package output renders command reports as raw text, JSON or XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/temirov/csskit/internal/selectors"
	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	listItemPrefix       = "  - "
	noneLabel            = "none"
	foundLineFormat      = "Found %d selectors in sources; keeping %d after normalization.\n"
	scannedLineFormat    = "Scanned files: %d\n"
	inputLineFormat      = "Input CSS: %s (%s)\n"
	outputLineFormat     = "Output CSS: %s%s\n"
	dryRunSuffix         = " (dry-run, not written)"
	writtenSuffixFormat  = " (%s, %s)"
	selectorsHeader      = "Selectors found (normalized):"
	tagsHeader           = "HTML tags found:"
	missingInputLabel    = "missing"
	compiledLineFormat   = "Compiled %s -> %s (%s, %s)\n"
	sourceMapLineFormat  = "Source map: %s\n"
	scaffoldDirectoryFmt = "Created directory: %s\n"
	scaffoldSummaryFmt   = "Done. Created: %d, Overwritten: %d, Skipped: %d\n"
	scaffoldDryRunLine   = "Dry-run complete. No files were written.\n"
	nextStepsBlock       = "Next steps:\n  - Compile CSS: csskit compile\n  - With source map: csskit compile --source-map\n"
)

var scaffoldActionLabels = map[string]string{
	types.ScaffoldActionCreated:        "Created",
	types.ScaffoldActionOverwritten:    "Overwrote",
	types.ScaffoldActionSkipped:        "Skip existing",
	types.ScaffoldActionWouldCreate:    "[dry-run] Would create",
	types.ScaffoldActionWouldOverwrite: "[dry-run] Would overwrite",
}

// NaturalOrder returns a sorted copy of values where embedded numbers compare
// numerically, so ".col-2" precedes ".col-10".
func NaturalOrder(values []string) []string {
	ordered := append([]string(nil), values...)
	sort.SliceStable(ordered, func(left, right int) bool {
		return natural.Less(ordered[left], ordered[right])
	})
	return ordered
}

// TagsOf returns the bare HTML tag selectors among selectorList, in order.
func TagsOf(selectorList []string) []string {
	tags := make([]string, 0)
	for _, selector := range selectorList {
		if selectors.IsTag(selector) {
			tags = append(tags, selector)
		}
	}
	return tags
}

// RenderPurge renders a purge report in the requested format.
func RenderPurge(format string, report types.PurgeReport) (string, error) {
	report.Selectors = NaturalOrder(report.Selectors)
	report.Tags = NaturalOrder(report.Tags)
	switch format {
	case types.FormatJSON:
		return renderJSON(report)
	case types.FormatXML:
		return renderXML(report)
	case types.FormatRaw, "":
		return RenderPurgeRaw(report), nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// RenderPurgeRaw returns the purge report as plain text lines.
func RenderPurgeRaw(report types.PurgeReport) string {
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf(foundLineFormat, report.Stats.Found, len(report.Selectors)))
	buffer.WriteString(fmt.Sprintf(scannedLineFormat, len(report.Stats.ScannedFiles)))

	inputSize := missingInputLabel
	if !report.InputMissing {
		inputSize = utils.FormatFileSize(report.InputBytes)
	}
	buffer.WriteString(fmt.Sprintf(inputLineFormat, report.InputPath, inputSize))

	outputSuffix := dryRunSuffix
	if !report.DryRun {
		outputSuffix = fmt.Sprintf(writtenSuffixFormat, utils.FormatFileSize(report.OutputBytes), utils.FormatReduction(report.InputBytes, report.OutputBytes))
	}
	buffer.WriteString(fmt.Sprintf(outputLineFormat, report.OutputPath, outputSuffix))

	if len(report.Selectors) == 0 {
		buffer.WriteString(selectorsHeader + " " + noneLabel + "\n")
		return buffer.String()
	}
	writeList(&buffer, selectorsHeader, report.Selectors)
	if len(report.Tags) == 0 {
		buffer.WriteString(tagsHeader + " " + noneLabel + "\n")
	} else {
		writeList(&buffer, tagsHeader, report.Tags)
	}
	return buffer.String()
}

// RenderCompile renders a compile report in the requested format.
func RenderCompile(format string, report types.CompileReport) (string, error) {
	switch format {
	case types.FormatJSON:
		return renderJSON(report)
	case types.FormatXML:
		wrapper := struct {
			XMLName xml.Name `xml:"compile"`
			types.CompileReport
		}{CompileReport: report}
		return renderXML(wrapper)
	case types.FormatRaw, "":
		var buffer bytes.Buffer
		buffer.WriteString(fmt.Sprintf(compiledLineFormat, report.InputPath, report.OutputPath, report.Style, utils.FormatFileSize(report.OutputBytes)))
		if report.SourceMapPath != "" {
			buffer.WriteString(fmt.Sprintf(sourceMapLineFormat, report.SourceMapPath))
		}
		return buffer.String(), nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// RenderScaffoldRaw describes an init run as plain text.
func RenderScaffoldRaw(report types.ScaffoldReport) string {
	var buffer bytes.Buffer
	if report.DirectoryCreated {
		if report.DryRun {
			buffer.WriteString("[dry-run] Would create directory: " + report.Directory + "\n")
		} else {
			buffer.WriteString(fmt.Sprintf(scaffoldDirectoryFmt, report.Directory))
		}
	}
	for _, file := range report.Files {
		line := scaffoldActionLabels[file.Action] + ": " + file.Path
		if file.Action == types.ScaffoldActionSkipped {
			line += " (use --force to overwrite)"
		}
		buffer.WriteString(line + "\n")
	}
	if report.DryRun {
		buffer.WriteString(scaffoldDryRunLine)
		return buffer.String()
	}
	buffer.WriteString(fmt.Sprintf(scaffoldSummaryFmt, report.Created, report.Overwritten, report.Skipped))
	buffer.WriteString(nextStepsBlock)
	return buffer.String()
}

func writeList(buffer *bytes.Buffer, header string, values []string) {
	buffer.WriteString(header + "\n")
	for _, value := range values {
		buffer.WriteString(listItemPrefix + value + "\n")
	}
}

func renderJSON(value interface{}) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

func renderXML(value interface{}) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(value, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}
