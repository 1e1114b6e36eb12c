// Package script runs comparison methods implemented by a WebAssembly guest.
//
// A Runtime loads one guest module on wazero and implements
// typeinfo.Engine, so arrays sort and search through scripted opCmp and
// opEquals methods exactly as they do through native ones:
//
//	rt, err := script.New(ctx, nil, lookup)
//	if err != nil { ... }
//	defer rt.Close(ctx)
//	if err := rt.Load(ctx, wasm); err != nil { ... }
//	if _, err := rt.Bind(boxType, "opCmp", "box_cmp", typeinfo.ReturnInt32); err != nil { ... }
//	reg.SetEngine(rt)
//
// # Guest ABI
//
// Method exports take the receiver and argument refs as i32 and return an
// i32: a bool for opEquals, a signed ordering for opCmp. Guests read host
// objects through the imported function
//
//	(import "env" "value" (func (param i32) (result i64)))
//
// which returns the value the Lookup passed to New reports for a ref.
// Additional host functions with signature (i32) -> i32 can be added with
// Runtime.Define before Load.
//
// # Contexts
//
// Each array operation requests one context and reuses it for every
// comparison it makes. Contexts are pooled and hold their own function
// handles and call stack, so concurrent operations on different arrays do
// not share wazero call state.
package script
