// Package gen generates Path methods for annotated Go enums.
//
// The generation pipeline follows this flow:
//
//	Go packages (//pathstr:derive types)
//	        ↓
//	   load.Package (declarations, directives, constants)
//	        ↓
//	   Package / Type (validated paths, one arm per constant)
//	        ↓
//	   JenniferGenerator (Go source)
//	        ↓
//	   Writer (goimports, write, check or remove)
//
// # Key Types
//
//   - Config: Global configuration of a run, built from Options
//   - Package: The derived types of one Go package
//   - Type: An enum with its path configuration and switch arms
//   - Writer: Writes or checks the generated file of each package
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ShapeError: derive on something that is not an enum
//   - ConfigError: missing or invalid configuration
//   - DirectiveError: malformed directives
//   - GenerationError: rendering, formatting or file errors
//   - StaleError: out of date files in check mode
//
// Example error handling:
//
//	if err := w.WriteAll(ctx, pkgs); err != nil {
//		var stale *gen.StaleError
//		if errors.As(err, &stale) {
//			fmt.Print(stale.Diff)
//		}
//	}
package gen
