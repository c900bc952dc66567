// Package selectors turns free-form template and script sources into CSS selectors.
//
// Extract is a regular-expression scanner, not a parser: it recognizes class,
// className and id attributes, data-bs-theme attributes, opening HTML tags,
// string literals inside Twig-style {{ }} and {% %} spans, and quoted
// arguments of classList.add/classList.toggle calls. Normalize is the
// correctness boundary: it keeps only tokens matching the class, id,
// attribute, :root or tag grammar and removes duplicates.
package selectors
