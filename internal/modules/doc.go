// Package modules contains the application's self-contained features.
//
// Each subdirectory implements module.Module. Modules are listed in
// internal/app/modules.go; the server registers them all, then boots each on
// its own route group.
package modules
