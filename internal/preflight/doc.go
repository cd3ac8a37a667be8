// Package preflight provides readiness checks for external tools and
// filesystem paths that trackscribe depends on.
//
// These checks run in two contexts:
//   - The run command calls RunAll before processing any tracks. If a check
//     fails, the run aborts instead of failing halfway through a playlist.
//   - The "trackscribe status" command uses the same checks, plus
//     CheckSystemDeps, to display tool and directory health.
package preflight
