// Package narrator implements the bounded-noise filter between an agent's
// high-frequency activity stream and the low-frequency spoken channel.
//
// The decision engine buffers every snippet, short-circuits through the
// verbosity gate and per-type cooldowns, and only then consults the
// completion backend; unparseable or failed backend output degrades to a
// deterministic fallback so that no failure ever escapes the live path.
package narrator
