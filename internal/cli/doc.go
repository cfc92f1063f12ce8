// Package cli is responsible for parsing command-line arguments, merging them
// with the optional HCL run file, prompting for project folders when none were
// given, and handling process-level concerns like exit codes. It translates
// CLI flags into the application's internal configuration.
package cli
