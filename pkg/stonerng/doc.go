/*
Package stonerng provides a buffered, ChaCha-based CSPRNG with unbiased
ranged sampling and a compact versioned serialization format.

# How it works:

The generator holds a 256-bit key, 64-bit nonce, and 64-bit block counter in
the original Bernstein ChaCha layout. Each refill permutes one state block
into a 64-byte buffer served out as eight 64-bit words; the counter then
advances. Only key, nonce, counter, and the consumption index determine
future output; the buffer is derived, which is why equality and
serialization can ignore its contents.

Unbiased produces exactly uniform values over any inclusive range by
rejection sampling, never by bare modulo reduction.

# General guidelines:
  - Construct from stonekey-derived material (New) for deterministic
    password generation, or from OS entropy (NewFromEntropy) for everything
    else. NewDeterministic exists for tests only.
  - The counter must never wrap on one key/nonce pair. The generator treats
    a wrap as fatal rather than silently replaying keystream; Reseed with
    fresh material instead of pushing a generator that far.
  - A serialized record contains the key. Treat it like the key.
*/
package stonerng
