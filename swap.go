package hxtag

// SwapMode is an HTMX hx-swap strategy.
//
// See https://htmx.org/attributes/hx-swap/.
type SwapMode string

const (
	// SwapOuter replaces the whole tag with the re-rendered markup.
	// Every wired element swaps this way.
	SwapOuter SwapMode = "outerHTML"

	// SwapDelete removes the target element. The host answers with it,
	// through HX-Reswap, once a handler calls Event.Remove.
	SwapDelete SwapMode = "delete"

	// SwapNone discards the response.
	SwapNone SwapMode = "none"
)
