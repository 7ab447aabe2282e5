// Package harness runs scripted interaction scenarios against a live engine
// and checks the outcome.
//
// # Scenario Format
//
// Scenarios are YAML documents:
//
//	name: submit_check_delete
//	description: "Submit a todo, check it, delete it"
//	steps:
//	  - type: "milk"                       # full text of the focused view
//	  - key: enter
//	  - press: {role: todo-checkmark, todo: "milk"}
//	  - dispatch: {create: "eggs"}
//	  - resize: {width: 80, height: 24}
//	  - tick: 2                            # idle ticks
//	expect:
//	  todos: [{text: "milk", checked: true}]
//	  focus: input-label                   # none | <role> | {role, todo}
//	  views: [{role: todo-text-label, todo: "milk", style: completed}]
//	  view_count: 9
//	  skipped: [STALE_HANDLE]
//	  golden: milk_checked
//
// Documents are checked against an embedded CUE schema before decoding, and
// decoded with unknown fields rejected.
//
// # Execution
//
// Each step submits its notifications, runs one tick and settles carried
// work. Todos are addressed by text; the first live todo with that text is
// used. Presses on the input use role input-box or input-label without a
// todo.
//
// After every step the harness checks the engine's standing invariants:
// at most one editable view and it is the focused one, every todo has its
// full view subtree, no view outlives its model, and the scene mirror
// agrees with the record store. At the end the journal is replayed on a
// fresh engine and every tick digest must match.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/checkout.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
