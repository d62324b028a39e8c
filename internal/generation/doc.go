// Package generation talks to external generation backends and normalizes
// every result into a single outcome shape. A backend call either produces
// well-formed file entries (Success), or the client substitutes a
// deterministic fallback skeleton (Degraded) when the backend fails, times
// out, or returns unusable content. The caller always receives something
// usable; availability wins over fidelity.
package generation
