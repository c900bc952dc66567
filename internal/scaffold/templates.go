package scaffold

const lightEntryTemplate = `// Project-wide Bootstrap configuration
// -------------------------------------------------
// Load functions first, then override variables, then import Bootstrap.

// 1) Bootstrap functions (used in variable calculations)
@import "functions";

// 2) Variable overrides (omit !default so they apply)
$primary: #ff0000;

// 3) Bootstrap base variables so component imports see consistent maps
@import "variables";

// 4) Full Bootstrap
@import "bootstrap";
`

const darkEntryTemplate = `// Dark mode build for Bootstrap
// -------------------------------------------------
// 1) Bootstrap functions
@import "functions";

// 2) Dark-specific variables
$body-bg: #121212;
$body-color: #e6e6e6;
$primary: #0d6efd;

// Additional maps and variables from Bootstrap
@import "variables";

// 3) Full Bootstrap
@import "bootstrap";
`
