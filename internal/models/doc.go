// Package models defines the core domain models for the club treasury.
//
// # Entities
//
//   - Event: a collectible occasion (match, dinner, outing) with a fixed
//     per-participant required amount and a status lifecycle.
//   - PaymentRecord: one member's obligation and payment state for one
//     event. RequiredAmount is a snapshot taken at creation; later edits
//     to the event's amount never change existing records.
//   - Transaction: a club finance entry, either recorded manually or
//     generated from paid PaymentRecords of an event.
//   - AuthorizedMember / RegisteredMember / PendingRegistration: identity
//     and role data consumed read-mostly by the access policy.
//
// # Design principles
//
//  1. PaymentStatus is derived from amounts, never stored independently of
//     them. Mutation paths recompute it; callers cannot supply it.
//  2. Event.CollectedAmount and CollectionProgress are cached projections
//     of the event's PaymentRecord set, recomputed after every payment
//     mutation. They are not guaranteed instantaneously consistent.
//  3. Relationships use ID strings rather than pointers to avoid circular
//     references; rows in the backing store carry the same field order as
//     the structs here (see internal/storage/rowdb).
package models
