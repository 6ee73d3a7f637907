/*
Package chacha implements the keyless 16-word, 20-round add-rotate-XOR
permutation at the bottom of the stonepass primitive stack, together with the
two standard state layouts.

The core is the ChaCha20 block function (Bernstein, 2008): 10 double rounds,
each mixing the four columns and then the four diagonals with the quarter-round,
followed by the feed-forward addition of the original input words. The
feed-forward is what makes the function one-way rather than an invertible
permutation, so it must never be skipped.

Two state layouts are supported. BuildState produces the original Bernstein
layout (64-bit nonce, 64-bit counter) used everywhere inside this module.
BuildStateIETF produces the RFC 8439 layout (96-bit nonce, 32-bit counter) for
interop with standard ChaCha20 stream-cipher implementations; the two layouts
are NOT interchangeable.

All operations are branch-free over secret data and index no tables, so
execution time and memory-access patterns are data-independent.
*/
package chacha
