// Package entity defines the archive's domain objects: entries with their
// sections, and maps of content (MOCs) with their collections.
//
// Each object is a handle on a store container plus a set of lazy fields.
// A field is read from the store the first time it is accessed and cached
// until ClearCache. StoreLazy writes back only the fields that are loaded,
// so an object that never touched a field never overwrites it. Nothing is
// written implicitly; callers that mutate an object must call StoreLazy.
//
// Layout of an entry container:
//
//	title, description    string scalars
//	tags/, notes/         string lists
//	date/                 uint16 list [day, month, year]
//	sections/<i>/         title, content, notes/
//
// A MOC container has the same title, description, tags and notes, plus
// collections/<i>/ holding title, notes/ and include/.
package entity
