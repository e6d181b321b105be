// Package cli implements the pimon command-line interface.
//
// Every command loads the configuration once, builds a report aggregator
// from it and hands a cycle function to one of the front ends in
// internal/monitor:
//
//	pimon              - Full-screen dashboard (watch mode when stdout isn't a terminal)
//	pimon snapshot     - One report, printed once
//	pimon watch        - Headless refresh loop printing every report
//	pimon config       - Effective configuration as YAML
//	pimon doctor       - Diagnose missing tools and SSH problems
//	pimon version      - Build information
package cli
