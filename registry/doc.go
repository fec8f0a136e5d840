// Package registry is a string-keyed entity factory: given a kind name and
// a dictionary of string arguments, it builds the corresponding
// entity.Entity.
//
// Grounded on original_source/src/utils.cpp's EntityFactory, which resolves
// a kind name to a constructor by dlopen-ing a shared library and looking
// up a "<Name>Factory" symbol at runtime. Go has no runtime-loadable-plugin
// equivalent worth using here (and this engine has no Non-goal-violating
// user-scripting requirement that would justify one) — the same "name ->
// constructor" indirection is expressed instead as an explicit map
// populated by Register calls, the same shape as database/sql's driver
// registry or image's format registry.
package registry
