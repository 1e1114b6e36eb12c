// Package typeinfo provides runtime type descriptors for script-visible
// values.
//
// A Registry owns Types. Each Type has a Kind: primitives are stored inline
// in array slots, while object types are stored as a Ref into an external
// store. Object types are either value types, created and copied through a
// Factory, or reference types shared through handles and counted by a
// Counter.
//
// Types can be declared directly or from WIT:
//
//	reg := typeinfo.NewRegistry(typeinfo.DefaultOptions())
//	color, err := reg.RegisterWIT("color", &wit.TypeDef{Kind: &wit.Enum{Cases: cases}})
//
// Methods attached to a type are described by Method for reflection. A Method
// either carries a NativeFunc or names a scripted export that the registry's
// Engine executes.
//
// Types expose a user data side table keyed by UserDataKey. Owners of a key
// install a CleanupFunc with Registry.SetCleanup; it runs when the type is
// unregistered.
package typeinfo
