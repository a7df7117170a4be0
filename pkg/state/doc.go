// Package state persists anchor state as bookmarks: encoded fragments saved
// per owner so a session can restore the anchor it last wrote.
//
// Responsibilities:
//   - Store only loads/saves one encoded fragment for one Ref.
//   - Resolver decodes stored fragments into anchor.State, fills defaults,
//     and runs read-modify-write cycles that re-encode through an
//     anchor.Codec, so schema violations never reach the Store.
//
// Data flow:
//
//	Store -> Resolver -> anchor.Codec.Decode -> anchor.State
//	anchor.State -> Mutator -> anchor.Codec.Encode -> Store
//
// Concurrency control:
//
//	Meta.ETag is compared before Mutate saves. MemoryStore assigns a fresh
//	UUID ETag on every save.
package state
