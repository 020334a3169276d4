// Package decompose turns the augmenting-path search into a set of
// concurrently usable paths.
//
// The loop is a successive-shortest-path scheme over a flowgraph.Graph:
//
//	for {
//	    p := augment.Search(g)          // shortest residual path, nil when done
//	    s := Saturate(g, p)             // push as much as p admits
//	    if len(s.Runs) == 1 {
//	        add p to every alternative  // pure forward flow
//	    } else {
//	        Mutate(alternative, s.Runs) // p cancels committed flow: reroute
//	    }
//	}
//
// # Saturation and runs
//
// Saturate computes, per edge of the path, how much can still move in the
// traversal direction (Capacity − Flow forward, Capacity + Flow backward) and
// pushes the minimum over all edges. A step against existing flow is further
// limited to that flow, so an edge never flips direction within one round;
// the next round continues forward through the emptied edge.
//
// Meanwhile the path is cut into maximal runs alternating between forward
// steps (following existing flow, or none) and counter steps (opposing it).
// Adjacent runs share their boundary node. Because flow leaves the source and
// enters the terminal, a valid split starts and ends with a forward run and
// has an odd number of runs.
//
// # Mutation
//
// A counter run C = u…v means committed paths already walk v…u. Mutate picks
// among them the combination with the smallest total flow still covering the
// pushed amount, and splices every chosen path P = prefix·(v…u)·suffix with
// the new path N = lead·(u…v)·rest:
//
//	prefix·rest   and   lead·suffix
//
// each carrying the share of flow P contributed; any excess of P stays behind
// as an untouched clone. When N holds more than one counter run the spliced
// prefix·rest still contains the next one and goes back on an explicit work
// stack, so 3 runs resolve in one step and 5, 7, 9… iterate, two runs per step.
//
// Several minimal covers can tie; each one yields its own decomposition, kept
// side by side as Alternatives (bounded by Options.MaxAlternatives).
//
// When the loop ends every alternative is merged (paths.ConcurrentSet.Merge).
package decompose
