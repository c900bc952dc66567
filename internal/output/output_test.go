package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/temirov/csskit/internal/output"
	"github.com/temirov/csskit/internal/types"
)

// samplePurgeReport is a written purge of a 2kb stylesheet down to 512 bytes.
var samplePurgeReport = types.PurgeReport{
	InputPath:   "in.css",
	InputBytes:  2048,
	OutputPath:  "out.css",
	OutputBytes: 512,
	Selectors:   []string{".col-10", "div", ".col-2"},
	Tags:        []string{"div"},
	Stats: types.PurgeStats{
		Found:        5,
		Normalized:   3,
		ScannedFiles: []string{"templates/a.html", "templates/b.twig"},
	},
}

// purgeRawExpected defines the expected raw rendering of samplePurgeReport.
const purgeRawExpected = "Found 5 selectors in sources; keeping 3 after normalization.\n" +
	"Scanned files: 2\n" +
	"Input CSS: in.css (2kb)\n" +
	"Output CSS: out.css (512b, -75.0%)\n" +
	"Selectors found (normalized):\n" +
	"  - .col-2\n" +
	"  - .col-10\n" +
	"  - div\n" +
	"HTML tags found:\n" +
	"  - div\n"

// TestRenderPurgeRaw verifies the plain text purge report.
func TestRenderPurgeRaw(testingInstance *testing.T) {
	actual, renderError := output.RenderPurge(types.FormatRaw, samplePurgeReport)
	if renderError != nil {
		testingInstance.Fatalf("render raw: %v", renderError)
	}
	if actual != purgeRawExpected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderPurgeRawDryRunWithoutSelectors verifies the dry-run and empty markers.
func TestRenderPurgeRawDryRunWithoutSelectors(testingInstance *testing.T) {
	report := types.PurgeReport{InputPath: "missing.css", InputMissing: true, OutputPath: "out.css", DryRun: true}
	expected := "Found 0 selectors in sources; keeping 0 after normalization.\n" +
		"Scanned files: 0\n" +
		"Input CSS: missing.css (missing)\n" +
		"Output CSS: out.css (dry-run, not written)\n" +
		"Selectors found (normalized): none\n"
	actual := output.RenderPurgeRaw(report)
	if actual != expected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderPurgeRawWithoutTags verifies the empty tag marker.
func TestRenderPurgeRawWithoutTags(testingInstance *testing.T) {
	report := samplePurgeReport
	report.Tags = nil
	actual := output.RenderPurgeRaw(report)
	if !strings.HasSuffix(actual, "HTML tags found: none\n") {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestRenderPurgeJSON verifies the JSON purge report.
func TestRenderPurgeJSON(testingInstance *testing.T) {
	actual, renderError := output.RenderPurge(types.FormatJSON, samplePurgeReport)
	if renderError != nil {
		testingInstance.Fatalf("render json: %v", renderError)
	}
	var decoded types.PurgeReport
	if decodeError := json.Unmarshal([]byte(actual), &decoded); decodeError != nil {
		testingInstance.Fatalf("decode json: %v", decodeError)
	}
	if strings.Join(decoded.Selectors, " ") != ".col-2 .col-10 div" {
		testingInstance.Errorf("unexpected selectors: %v", decoded.Selectors)
	}
	if decoded.Stats.Found != 5 || len(decoded.Stats.ScannedFiles) != 2 {
		testingInstance.Errorf("unexpected stats: %+v", decoded.Stats)
	}
	if !strings.Contains(actual, "\"scannedFiles\"") {
		testingInstance.Errorf("expected scannedFiles key in %s", actual)
	}
}

// TestRenderPurgeXML verifies the XML purge report.
func TestRenderPurgeXML(testingInstance *testing.T) {
	actual, renderError := output.RenderPurge(types.FormatXML, samplePurgeReport)
	if renderError != nil {
		testingInstance.Fatalf("render xml: %v", renderError)
	}
	for _, fragment := range []string{"<?xml", "<purge>", "<selector>.col-2</selector>", "<tag>div</tag>", "<file>templates/a.html</file>"} {
		if !strings.Contains(actual, fragment) {
			testingInstance.Errorf("expected %q in %s", fragment, actual)
		}
	}
}

// TestRenderPurgeUnsupportedFormat verifies unknown formats are rejected.
func TestRenderPurgeUnsupportedFormat(testingInstance *testing.T) {
	if _, renderError := output.RenderPurge("toml", samplePurgeReport); renderError == nil {
		testingInstance.Fatal("expected an error")
	}
}

// TestRenderCompile verifies compile report rendering.
func TestRenderCompile(testingInstance *testing.T) {
	report := types.CompileReport{
		InputPath:     "assets/scss/bootstrap5-custom.scss",
		OutputPath:    "assets/css/bootstrap.min.css",
		SourceMapPath: "assets/css/bootstrap.min.css.map",
		Style:         types.StyleCompressed,
		OutputBytes:   100,
	}
	expected := "Compiled assets/scss/bootstrap5-custom.scss -> assets/css/bootstrap.min.css (compressed, 100b)\n" +
		"Source map: assets/css/bootstrap.min.css.map\n"
	actual, renderError := output.RenderCompile(types.FormatRaw, report)
	if renderError != nil {
		testingInstance.Fatalf("render compile: %v", renderError)
	}
	if actual != expected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
	xmlOutput, renderError := output.RenderCompile(types.FormatXML, report)
	if renderError != nil {
		testingInstance.Fatalf("render compile xml: %v", renderError)
	}
	if !strings.Contains(xmlOutput, "<compile>") || !strings.Contains(xmlOutput, "<style>compressed</style>") {
		testingInstance.Errorf("unexpected xml: %s", xmlOutput)
	}
}

// TestRenderScaffoldRaw verifies the init summary.
func TestRenderScaffoldRaw(testingInstance *testing.T) {
	report := types.ScaffoldReport{
		Directory:        "assets/scss",
		DirectoryCreated: true,
		Files: []types.ScaffoldFile{
			{Path: "assets/scss/bootstrap5-custom.scss", Action: types.ScaffoldActionCreated},
			{Path: "assets/scss/bootstrap5-custom-dark.scss", Action: types.ScaffoldActionSkipped},
		},
		Created: 1,
		Skipped: 1,
	}
	expected := "Created directory: assets/scss\n" +
		"Created: assets/scss/bootstrap5-custom.scss\n" +
		"Skip existing: assets/scss/bootstrap5-custom-dark.scss (use --force to overwrite)\n" +
		"Done. Created: 1, Overwritten: 0, Skipped: 1\n" +
		"Next steps:\n" +
		"  - Compile CSS: csskit compile\n" +
		"  - With source map: csskit compile --source-map\n"
	actual := output.RenderScaffoldRaw(report)
	if actual != expected {
		testingInstance.Errorf("unexpected output: %q", actual)
	}
}

// TestNaturalOrder verifies numeric-aware ordering and TagsOf filtering.
func TestNaturalOrder(testingInstance *testing.T) {
	ordered := output.NaturalOrder([]string{".mt-10", ".mt-2", ".mt-1"})
	if strings.Join(ordered, " ") != ".mt-1 .mt-2 .mt-10" {
		testingInstance.Errorf("unexpected order: %v", ordered)
	}
	tags := output.TagsOf([]string{".a", "div", "#b", "h1", ":root"})
	if strings.Join(tags, " ") != "div h1" {
		testingInstance.Errorf("unexpected tags: %v", tags)
	}
}
