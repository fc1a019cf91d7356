// Package commands defines the proforma CLI.
//
// Commands
//
//   - example      Print the built-in sample pro forma as JSON
//   - validate     Report problems in a pro forma
//   - metrics      Headline profitability and return metrics
//   - cashflow     Monthly sources-and-uses simulation
//   - amortize     Loan schedules, from the pro forma or from flags
//   - waterfall    Investor/sponsor distribution of proceeds
//   - sensitivity  What-if tables over sale price, hard costs and timeline
//   - analyze      Everything above in one JSON document
//   - report       Markdown or HTML investment memo
//
// # Inputs
//
// The pro forma is read from --file (JSON or Hjson; "-" reads stdin). Without
// --file the built-in example is used. Engine settings come from the YAML
// file named by --config or PROFORMA_CONFIG; a .env file in the working
// directory is loaded first.
//
// # Output
//
// JSON commands wrap their result in an envelope carrying a run id and the
// project id. --query applies a JSONPath expression to the envelope and
// prints only the match. Diagnostics go to stderr.
package commands
