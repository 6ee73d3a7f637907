/*
Package stonehash provides a streaming, domain-separated hash built from the
ChaCha permutation in a BLAKE-style compression construction.

# How it works:

The Compressor XORs each 64-byte block into a running accumulator and permutes
the result. Finalization copies the accumulator, flips a final-block flag,
injects the message bit length, and permutes once more. The live accumulator
is never modified, so a digest can be probed mid-stream.

Hash layers conventional streaming on top: an init block carrying the IV and
an optional 256-bit key, buffered partial input, and 0x80/zero/bit-length
padding in the last block. Digest widths of 64, 32, 16, and 8 bytes are all
prefixes of the single canonical 64-byte digest, never separate computations,
so truncation is the only difference between them.

# General guidelines:
  - Keyed mode (NewKeyed) is the right tool for domain separation: two hashes
    with different keys can never produce related digests for the same input.
  - NewStretched slows brute force by iteration count only. It is not
    memory-hard; prefer stonekey.DeriveKey for password-to-key derivation.
  - Call Wipe on a Hash that absorbed secret material once it's finished.
*/
package stonehash
