// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle (discover connection and
// project files, repair every project, report), decoupled from the CLI
// entrypoint.
package app
