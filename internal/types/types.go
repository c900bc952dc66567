// Package types defines the cross-package data structures used by the csskit CLI.
package types

import "encoding/xml"

const (
	CommandPurge   = "purge"
	CommandCompile = "compile"
	CommandInit    = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"

	StyleExpanded   = "expanded"
	StyleCompressed = "compressed"
)

// PurgeStats summarizes one purge invocation.
type PurgeStats struct {
	Found        int      `json:"found" xml:"found"`
	Normalized   int      `json:"normalized" xml:"normalized"`
	ScannedFiles []string `json:"scannedFiles" xml:"scannedFiles>file"`
}

// PurgeReport is the rendered result of the purge command.
type PurgeReport struct {
	XMLName      xml.Name   `json:"-" xml:"purge"`
	InputPath    string     `json:"input" xml:"input"`
	InputBytes   int64      `json:"inputBytes" xml:"inputBytes"`
	InputMissing bool       `json:"inputMissing,omitempty" xml:"inputMissing,omitempty"`
	OutputPath   string     `json:"output" xml:"output"`
	OutputBytes  int64      `json:"outputBytes" xml:"outputBytes"`
	DryRun       bool       `json:"dryRun" xml:"dryRun"`
	Selectors    []string   `json:"selectors" xml:"selectors>selector"`
	Tags         []string   `json:"tags" xml:"tags>tag"`
	Stats        PurgeStats `json:"stats" xml:"stats"`
}

// CompileReport describes a finished SCSS compilation.
type CompileReport struct {
	InputPath     string `json:"input" xml:"input"`
	OutputPath    string `json:"output" xml:"output"`
	SourceMapPath string `json:"sourceMap,omitempty" xml:"sourceMap,omitempty"`
	Style         string `json:"style" xml:"style"`
	OutputBytes   int64  `json:"outputBytes" xml:"outputBytes"`
}

// Scaffold actions reported for each entry file.
const (
	ScaffoldActionCreated        = "created"
	ScaffoldActionOverwritten    = "overwritten"
	ScaffoldActionSkipped        = "skipped"
	ScaffoldActionWouldCreate    = "would-create"
	ScaffoldActionWouldOverwrite = "would-overwrite"
)

// ScaffoldFile is the outcome for one scaffolded file.
type ScaffoldFile struct {
	Path   string `json:"path" xml:"path"`
	Action string `json:"action" xml:"action"`
}

// ScaffoldReport describes a finished init command.
type ScaffoldReport struct {
	Directory        string         `json:"directory" xml:"directory"`
	DirectoryCreated bool           `json:"directoryCreated" xml:"directoryCreated"`
	DryRun           bool           `json:"dryRun" xml:"dryRun"`
	Files            []ScaffoldFile `json:"files" xml:"files>file"`
	Created          int            `json:"created" xml:"created"`
	Overwritten      int            `json:"overwritten" xml:"overwritten"`
	Skipped          int            `json:"skipped" xml:"skipped"`
}
