/*
Package block provides the fixed-size buffers shared by every primitive in stonepass.

A Block64 is one 64-byte working block: the unit absorbed by the hash compressor,
the state fed through the ChaCha permutation, and the output buffer of the CSPRNG.
A Block32 holds 256-bit keys and truncated digests.

# How it works:

Multi-width access is deliberately implemented as explicit little-endian accessor
methods over a byte array rather than pointer reinterpretation, so the byte layout
of every word view is defined and identical on every platform. Mutating the block
through any width view is visible through all of them, because they share storage.

Wipe must be used whenever a block held secret material. It writes zeros through
crypto/subtle, which the compiler is not permitted to elide the way it may elide a
plain loop over a buffer that is about to go out of scope.
*/
package block
