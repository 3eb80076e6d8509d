// Package shape is the structural matching engine: it reconciles a
// declared list of typed slots against the live items of a cursor under a
// configurable ordering/unknown-content policy, and resolves sum types by
// trying variants in declaration order until one decodes.
//
// The package is the contract surface for generated (or hand-written)
// binding code: such code builds a []Slot with Field/Group, picks a
// Policy, and calls Match over the element's attribute or children cursor.
// Failed matches roll the cursor back to where they started, so matching
// composes with variant trials at arbitrary nesting depth.
package shape
