// Package config loads the document verifier configuration.
//
// Values come from environment variables, command-line flags and an
// optional JSON file and are merged field by field: the first source that
// sets a field wins, defaults fill whatever is left. The result is then
// validated group by group.
//
// [GetStructuredConfig] serves the API server, [GetToolConfig] the docctl
// tool and [GetClientConfig] the terminal client.
package config
